package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/limaJavier/sessionplanner/pkg/scenario"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newScenariosCommand() *cobra.Command {
	var (
		export string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios or export one as an input file",
		Example: `  sessionplanner scenarios
  sessionplanner scenarios --export conference --format yaml --out conference.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if export == "" {
				return listScenarios(cmd.OutOrStdout())
			}

			input, err := scenario.Get(export)
			if err != nil {
				return fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
			}
			return writeOutput(cmd.OutOrStdout(), out, func(writer io.Writer) error {
				return exportInput(writer, format, model.ToRawInput(input))
			})
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "Name of the scenario to export as an input file")
	cmd.Flags().StringVar(&format, "format", jsonFormat, fmt.Sprintf("Export format, %q or %q", jsonFormat, yamlFormat))
	cmd.Flags().StringVarP(&out, "out", "o", "", "Path to the file where the export will be written; if empty, it'll be written into the Standard Output")
	return cmd
}

const yamlFormat = "yaml"

func listScenarios(out io.Writer) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tSESSIONS\tMUST ATTEND\tOPTIONAL\tSLOTS")
	for _, name := range scenario.Names() {
		input, err := scenario.Get(name)
		if err != nil {
			return err
		}
		counts := lo.CountValuesBy(input.Sessions, func(session model.Session) model.Priority { return session.Priority })
		slots := lo.SumBy(input.Sessions, func(session model.Session) int { return len(session.TimeSlots) })
		fmt.Fprintf(writer, "%v\t%d\t%d\t%d\t%d\n", name, len(input.Sessions), counts[model.MustAttend], counts[model.Optional], slots)
	}
	return writer.Flush()
}

func exportInput(out io.Writer, format string, rawInput model.RawModelInput) error {
	switch format {
	case jsonFormat:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rawInput)
	case yamlFormat:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(rawInput); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("%w: unknown export format %q", model.ErrInvalidInput, format)
}
