package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/limaJavier/sessionplanner/internal/metrics"
	"github.com/limaJavier/sessionplanner/pkg/ilp"
	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/spf13/cobra"
)

func newOptimizeCommand() *cobra.Command {
	var (
		inputs      inputFlags
		strategies  strategyFlags
		out         string
		format      string
		dumpMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Build the best attendance schedule with one strategy",
		Example: `  sessionplanner optimize --scenario conference --strategy ilp
  sessionplanner optimize --file sessions.json --strategy branch-and-bound --bound matching --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			strategies.defaults(cmd)
			strategy, err := model.ParseStrategy(strategies.strategy)
			if err != nil {
				return fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
			}
			if format != textFormat && format != jsonFormat {
				return fmt.Errorf("%w: unknown output format %q", model.ErrInvalidInput, format)
			}

			input, source, err := inputs.load()
			if err != nil {
				return err
			}
			logger.Info().Str("source", source).Int("sessions", len(input.Sessions)).Str("strategy", string(strategy)).Msg("optimizing")

			recorder := metrics.NewRecorder()
			result := runStrategy(cmd.Context(), strategy, input, strategies, recorder)
			if dumpMetrics {
				defer func() {
					if err := recorder.WriteText(cmd.ErrOrStderr()); err != nil {
						logger.Warn().Err(err).Msg("cannot write metrics")
					}
				}()
			}
			if result.err != nil {
				return result.err
			}

			return writeOutput(cmd.OutOrStdout(), out, func(writer io.Writer) error {
				return render(writer, format, source, input, result)
			})
		},
	}

	inputs.register(cmd)
	strategies.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	cmd.Flags().StringVar(&format, "format", textFormat, fmt.Sprintf("Output format, %q or %q", textFormat, jsonFormat))
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "Dump run metrics in the prometheus text format to the Standard Error")
	return cmd
}

func (flags *strategyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.strategy, "strategy", "", fmt.Sprintf("Optimization strategy, one of %v (configuration default when empty)", model.Strategies()))
	cmd.Flags().StringVar(&flags.solver, "solver", "", fmt.Sprintf("ILP solver, one of %v (configuration default when empty)", ilp.SolverTypes()))
	cmd.Flags().StringVar(&flags.bound, "bound", "", fmt.Sprintf("Branch-and-bound bound policy, one of %v (configuration default when empty)", model.BoundPolicies()))
	cmd.Flags().BoolVar(&flags.noSeed, "no-seed", false, "Do not seed branch-and-bound with the greedy schedule")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Time budget of every run, e.g. 30s (configuration default when unset)")
}

// defaults fills the flags left unset from the configuration
func (flags *strategyFlags) defaults(cmd *cobra.Command) {
	if cfg == nil {
		return
	}
	if flags.strategy == "" {
		flags.strategy = string(cfg.Strategy)
	}
	if flags.solver == "" {
		flags.solver = string(cfg.Solver)
	}
	if flags.bound == "" {
		flags.bound = string(cfg.Bound)
	}
	if !cmd.Flags().Changed("timeout") {
		flags.timeout = cfg.Timeout
	}
}

func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	if err := write(file); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}
	logger.Debug().Str("path", path).Dur("elapsed", time.Since(start)).Msg("output written")
	return nil
}
