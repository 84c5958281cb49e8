package main

import (
	"fmt"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/limaJavier/sessionplanner/pkg/scenario"
	"github.com/spf13/cobra"
)

const randomScenario = "random"

type inputFlags struct {
	file           string
	scenario       string
	fallback       int
	seed           uint64
	randomSessions int
}

func (flags *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Path to a JSON or YAML input file")
	cmd.Flags().StringVarP(&flags.scenario, "scenario", "s", "", fmt.Sprintf("Built-in scenario, one of %v or %q", scenario.Names(), randomScenario))
	cmd.Flags().IntVar(&flags.fallback, "fallback-travel", -1, "Minutes assumed between locations missing from the travel table; negative fails on them instead")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 1, "Seed of the random scenario")
	cmd.Flags().IntVar(&flags.randomSessions, "sessions", scenario.DefaultRandomOptions().Sessions, "Number of sessions of the random scenario")
}

// load resolves the input and applies the travel fallback, from the flag or else from the configuration
func (flags *inputFlags) load() (model.Input, string, error) {
	var (
		rawInput model.RawModelInput
		source   string
	)

	switch {
	case flags.file != "" && flags.scenario != "":
		return model.Input{}, "", fmt.Errorf("%w: --file and --scenario are mutually exclusive", model.ErrInvalidInput)
	case flags.file != "":
		raw, err := model.RawInputFromFile(flags.file)
		if err != nil {
			return model.Input{}, "", err
		}
		rawInput, source = raw, flags.file
	case flags.scenario == randomScenario:
		options := scenario.DefaultRandomOptions()
		options.Sessions = flags.randomSessions
		input, err := scenario.Random(flags.seed, options)
		if err != nil {
			return model.Input{}, "", err
		}
		rawInput, source = model.ToRawInput(input), fmt.Sprintf("%v(seed=%d)", randomScenario, flags.seed)
	case flags.scenario != "":
		input, err := scenario.Get(flags.scenario)
		if err != nil {
			return model.Input{}, "", fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
		}
		rawInput, source = model.ToRawInput(input), flags.scenario
	default:
		return model.Input{}, "", fmt.Errorf("%w: either --file or --scenario must be specified", model.ErrInvalidInput)
	}

	if flags.fallback >= 0 {
		fallback := flags.fallback
		rawInput.FallbackTravelTime = &fallback
	} else if cfg != nil && cfg.FallbackTravelTime != nil && rawInput.FallbackTravelTime == nil {
		fallback := *cfg.FallbackTravelTime
		rawInput.FallbackTravelTime = &fallback
	}

	input, err := model.ProcessRawInput(rawInput)
	if err != nil {
		return model.Input{}, "", err
	}
	return input, source, nil
}
