package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/sessionplanner/internal/logging"
	"github.com/limaJavier/sessionplanner/pkg/ilp"
	"github.com/limaJavier/sessionplanner/pkg/model"
)

type strategyFlags struct {
	strategy string
	solver   string
	bound    string
	noSeed   bool
	timeout  time.Duration
}

type outcome struct {
	runId     string
	strategy  model.Strategy
	schedule  *model.Schedule
	search    model.SearchStats
	elapsed   time.Duration
	optimizer model.Optimizer
	err       error
}

// newOptimizer wires the configured solver, bound, logger and recorder into an optimizer of the given strategy
func newOptimizer(strategy model.Strategy, input model.Input, flags strategyFlags, recorder model.Recorder, runId string) (model.Optimizer, error) {
	options := []model.Option{
		model.WithLogger(logging.Component(logger, "optimizer").With().Str("run", runId).Logger()),
		model.WithBound(model.BoundPolicy(flags.bound)),
		model.WithGreedySeed(!flags.noSeed),
	}
	if recorder != nil {
		options = append(options, model.WithRecorder(recorder))
	}

	if strategy == model.ILP {
		solver, err := ilp.NewSolver(ilp.SolverType(flags.solver))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrSolverUnavailable, err)
		}
		options = append(options, model.WithSolver(solver))
	}

	return model.NewOptimizer(strategy, input, options...)
}

// optimizeWithin runs the optimizer, abandoning it once the timeout elapses. The abandoned search keeps running
// in the background until it finishes on its own, its result is discarded
func optimizeWithin(ctx context.Context, timeout time.Duration, optimizer model.Optimizer) (*model.Schedule, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		schedule *model.Schedule
		err      error
	}
	done := make(chan result, 1)
	go func() {
		schedule, err := optimizer.Optimize()
		done <- result{schedule: schedule, err: err}
	}()

	select {
	case result := <-done:
		return result.schedule, result.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", errTimeout, timeout)
	}
}

func runStrategy(ctx context.Context, strategy model.Strategy, input model.Input, flags strategyFlags, recorder model.Recorder) outcome {
	result := outcome{runId: uuid.NewString(), strategy: strategy}
	runLogger := logger.With().Str("run", result.runId).Str("strategy", string(strategy)).Logger()

	optimizer, err := newOptimizer(strategy, input, flags, recorder, result.runId)
	if err != nil {
		result.err = err
		return result
	}
	result.optimizer = optimizer

	start := time.Now()
	result.schedule, result.err = optimizeWithin(ctx, flags.timeout, optimizer)
	result.elapsed = time.Since(start)
	if reporter, ok := optimizer.(model.SearchReporter); ok && result.err == nil {
		result.search = reporter.LastSearch()
	}

	if result.err != nil {
		runLogger.Warn().Err(result.err).Dur("elapsed", result.elapsed).Msg("strategy failed")
		return result
	}

	if err := model.Verify(result.schedule, input); err != nil {
		runLogger.Error().Err(err).Msg("schedule failed verification")
		result.err = fmt.Errorf("%w: %w", errUnverified, err)
	}
	return result
}
