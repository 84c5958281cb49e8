package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/limaJavier/sessionplanner/internal/config"
	"github.com/limaJavier/sessionplanner/internal/logging"
	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOk                = 0
	exitFailure           = 1
	exitInvalidInput      = 2
	exitSolverUnavailable = 3
	exitSolverFailed      = 4
	exitTimeout           = 5
	exitUnverified        = 15
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var errTimeout = errors.New("time budget exceeded")
var errUnverified = errors.New("schedule failed verification")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}
	return exitOk
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sessionplanner",
		Short:         "Plan which conference sessions to attend",
		Long:          "sessionplanner picks one time slot for as many sessions as possible, so that no two picked slots overlap or leave too little time to walk or ride between venues. Must-attend sessions always take precedence over optional ones.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	root.AddCommand(newOptimizeCommand(), newCompareCommand(), newScenariosCommand())
	return root
}

// loadConfig loads configuration (called before every command)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrMissingTravelTime):
		return exitInvalidInput
	case errors.Is(err, model.ErrSolverUnavailable):
		return exitSolverUnavailable
	case errors.Is(err, model.ErrSolverFailed):
		return exitSolverFailed
	case errors.Is(err, errTimeout):
		return exitTimeout
	case errors.Is(err, errUnverified):
		return exitUnverified
	}
	return exitFailure
}
