package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/limaJavier/sessionplanner/pkg/ilp"
	"github.com/rs/zerolog"
)

// Optimizer picks, for as many sessions as possible, one candidate slot each, so that no two picked slots conflict.
// Must-attend sessions dominate: a schedule with more of them is always better regardless of optional sessions
type Optimizer interface {
	Optimize() (*Schedule, error)
	Statistics(schedule *Schedule) Statistics
}

// SearchReporter is implemented by optimizers that count the nodes of their latest search
type SearchReporter interface {
	LastSearch() SearchStats
}

type SearchStats struct {
	NodesVisited   uint64
	BranchesPruned uint64
}

// Recorder observes every finished optimization run
type Recorder interface {
	RecordRun(strategy Strategy, duration time.Duration, score Score, search SearchStats, err error)
}

type Strategy string

const (
	Greedy         Strategy = "greedy"
	Backtracking   Strategy = "backtracking"
	BranchAndBound Strategy = "branch-and-bound"
	ILP            Strategy = "ilp"
)

func Strategies() []Strategy {
	return []Strategy{Greedy, Backtracking, BranchAndBound, ILP}
}

func ParseStrategy(value string) (Strategy, error) {
	normalized := strings.ToLower(strings.NewReplacer("_", "-", " ", "-").Replace(strings.TrimSpace(value)))
	switch normalized {
	case "bnb", "branch-bound":
		return BranchAndBound, nil
	}
	for _, strategy := range Strategies() {
		if string(strategy) == normalized {
			return strategy, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", value)
}

type Option func(*optimizerOptions)

type optimizerOptions struct {
	logger     zerolog.Logger
	recorder   Recorder
	bound      BoundPolicy
	greedySeed bool
	solver     ilp.ILPSolver
}

func WithLogger(logger zerolog.Logger) Option {
	return func(options *optimizerOptions) {
		options.logger = logger
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(options *optimizerOptions) {
		options.recorder = recorder
	}
}

// WithBound selects the upper bound used by branch-and-bound to prune
func WithBound(bound BoundPolicy) Option {
	return func(options *optimizerOptions) {
		options.bound = bound
	}
}

// WithGreedySeed makes branch-and-bound start from the greedy schedule instead of the empty one
func WithGreedySeed(seed bool) Option {
	return func(options *optimizerOptions) {
		options.greedySeed = seed
	}
}

// WithSolver sets the backend of the ilp strategy
func WithSolver(solver ilp.ILPSolver) Option {
	return func(options *optimizerOptions) {
		options.solver = solver
	}
}

func NewOptimizer(strategy Strategy, input Input, options ...Option) (Optimizer, error) {
	settings := optimizerOptions{
		logger:     zerolog.Nop(),
		recorder:   noopRecorder{},
		bound:      CountBound,
		greedySeed: true,
	}
	for _, option := range options {
		option(&settings)
	}

	base := optimizerBase{strategy: strategy, input: input, options: settings, last: &searchRecord{}}
	switch strategy {
	case Greedy:
		return &greedyOptimizer{optimizerBase: base}, nil
	case Backtracking:
		return &backtrackingOptimizer{optimizerBase: base}, nil
	case BranchAndBound:
		if !settings.bound.Valid() {
			return nil, fmt.Errorf("unknown bound policy %q", settings.bound)
		}
		return &branchAndBoundOptimizer{optimizerBase: base}, nil
	case ILP:
		if settings.solver == nil {
			solver, err := ilp.NewSolver(ilp.Gophersat)
			if err != nil {
				return nil, err
			}
			settings.solver = solver
			base.options = settings
		}
		return &ilpOptimizer{optimizerBase: base}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", strategy)
}

type noopRecorder struct{}

func (noopRecorder) RecordRun(Strategy, time.Duration, Score, SearchStats, error) {}
