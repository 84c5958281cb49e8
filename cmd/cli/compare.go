package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/limaJavier/sessionplanner/internal/metrics"
	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/spf13/cobra"
)

func newCompareCommand() *cobra.Command {
	var (
		inputs      inputFlags
		strategies  strategyFlags
		dumpMetrics bool
	)

	cmd := &cobra.Command{
		Use:     "compare",
		Short:   "Run every strategy on the same input and compare their scores",
		Example: `  sessionplanner compare --scenario heavy-conflict --timeout 10s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			strategies.defaults(cmd)
			input, source, err := inputs.load()
			if err != nil {
				return err
			}

			recorder := metrics.NewRecorder()
			results := make([]outcome, 0, len(model.Strategies()))
			for _, strategy := range model.Strategies() {
				results = append(results, runStrategy(cmd.Context(), strategy, input, strategies, recorder))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Source: %v (%d sessions)\n\n", source, len(input.Sessions))
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "STRATEGY\tSTATUS\tMUST ATTEND\tOPTIONAL\tSCHEDULED\tNODES\tPRUNED\tELAPSED")
			for _, result := range results {
				fmt.Fprintln(writer, compareRow(input, result))
			}
			if err := writer.Flush(); err != nil {
				return err
			}

			if dumpMetrics {
				if err := recorder.WriteText(cmd.ErrOrStderr()); err != nil {
					return fmt.Errorf("cannot write metrics: %w", err)
				}
			}

			// Disagreement between exact strategies means one of them is wrong
			if best, ok := disagreement(results); ok {
				return fmt.Errorf("%w: exact strategies disagree on the optimum %v", errUnverified, best)
			}
			return nil
		},
	}

	inputs.register(cmd)
	strategies.register(cmd)
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "Dump run metrics in the prometheus text format to the Standard Error")
	return cmd
}

func compareRow(input model.Input, result outcome) string {
	if result.err != nil {
		return fmt.Sprintf("%v\t%v\t-\t-\t-\t-\t-\t%v", result.strategy, status(result.err), result.elapsed.Round(time.Microsecond))
	}

	score := result.schedule.Score()
	return fmt.Sprintf("%v\tok\t%d\t%d\t%d/%d\t%d\t%d\t%v",
		result.strategy, score.MustAttend, score.Optional, result.schedule.Len(), len(input.Sessions),
		result.search.NodesVisited, result.search.BranchesPruned, result.elapsed.Round(time.Microsecond))
}

func status(err error) string {
	switch {
	case errors.Is(err, errTimeout):
		return "timeout"
	case errors.Is(err, model.ErrSolverUnavailable):
		return "unavailable"
	case errors.Is(err, errUnverified):
		return "unverified"
	}
	return "failed"
}

// disagreement reports whether the successful exact strategies found different scores
func disagreement(results []outcome) (model.Score, bool) {
	var (
		best  model.Score
		found bool
	)
	for _, result := range results {
		if result.err != nil || result.strategy == model.Greedy {
			continue
		}
		score := result.schedule.Score()
		if !found {
			best, found = score, true
			continue
		}
		if score.Compare(best) != 0 {
			if score.Compare(best) > 0 {
				best = score
			}
			return best, true
		}
	}
	return best, false
}
