package model

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// A search returns the chosen options of the conflict graph, at most one per session
type search func(graph *conflictGraph) (chosen []int, stats SearchStats, err error)

type optimizerBase struct {
	strategy Strategy
	input    Input
	options  optimizerOptions
	last     *searchRecord
}

type searchRecord struct {
	mutex sync.Mutex
	stats SearchStats
}

func (base *optimizerBase) Statistics(schedule *Schedule) Statistics {
	return ComputeStatistics(schedule, base.input.Sessions)
}

func (base *optimizerBase) LastSearch() SearchStats {
	base.last.mutex.Lock()
	defer base.last.mutex.Unlock()
	return base.last.stats
}

// optimize validates the input, precomputes the conflict graph and runs the search on it. Every call owns its
// own search state, the input is only read
func (base *optimizerBase) optimize(run search) (*Schedule, error) {
	logger := base.options.logger.With().Str("strategy", string(base.strategy)).Logger()
	start := time.Now()

	schedule, stats, err := base.solve(run)
	elapsed := time.Since(start)

	base.last.mutex.Lock()
	base.last.stats = stats
	base.last.mutex.Unlock()

	score := Score{}
	if schedule != nil {
		score = schedule.Score()
	}
	base.options.recorder.RecordRun(base.strategy, elapsed, score, stats, err)

	if err != nil {
		logger.Error().Err(err).Dur("elapsed", elapsed).Msg("optimization failed")
		return nil, err
	}

	logger.Info().
		Int("sessions", len(base.input.Sessions)).
		Int("scheduled", schedule.Len()).
		Int("mustAttend", score.MustAttend).
		Int("optional", score.Optional).
		Uint64("nodesVisited", stats.NodesVisited).
		Uint64("branchesPruned", stats.BranchesPruned).
		Dur("elapsed", elapsed).
		Msg("optimization finished")
	return schedule, nil
}

func (base *optimizerBase) solve(run search) (*Schedule, SearchStats, error) {
	if err := base.input.Validate(); err != nil {
		return nil, SearchStats{}, err
	}

	graph, err := buildConflictGraph(base.input)
	if err != nil {
		return nil, SearchStats{}, err
	}
	base.options.logger.Debug().
		Str("strategy", string(base.strategy)).
		Int("options", len(graph.options)).
		Int("conflicts", len(graph.conflictingPairs())).
		Msg("conflict graph built")

	chosen, stats, err := run(graph)
	if err != nil {
		return nil, stats, err
	}

	schedule, err := graph.schedule(chosen)
	if err != nil {
		return nil, stats, err
	}
	return schedule, stats, nil
}

// schedule rebuilds the chosen options through Schedule.Add, so that every result is checked against the
// conflict rule once more
func (graph *conflictGraph) schedule(chosen []int) (*Schedule, error) {
	schedule := NewSchedule()
	for _, option := range chosen {
		if err := schedule.Add(graph.session(option), graph.slot(option), graph.input.TravelTimes); err != nil {
			return nil, fmt.Errorf("inconsistent selection: %w", err)
		}
	}
	return schedule, nil
}

// ledger is the partial schedule of a search, kept as option indices so that pushing, popping and conflict
// checks run on the precomputed graph
type ledger struct {
	graph  *conflictGraph
	chosen []int
	score  Score
}

func newLedger(graph *conflictGraph) *ledger {
	return &ledger{graph: graph, chosen: make([]int, 0, len(graph.input.Sessions))}
}

func (ledger *ledger) fits(option int) bool {
	for _, chosen := range ledger.chosen {
		if ledger.graph.conflicts[chosen][option] {
			return false
		}
	}
	return true
}

func (ledger *ledger) push(option int) {
	ledger.chosen = append(ledger.chosen, option)
	ledger.score = ledger.score.Add(ledger.graph.priority(option), 1)
}

func (ledger *ledger) pop() {
	last := ledger.chosen[len(ledger.chosen)-1]
	ledger.chosen = ledger.chosen[:len(ledger.chosen)-1]
	ledger.score = ledger.score.Add(ledger.graph.priority(last), -1)
}

func (ledger *ledger) snapshot() []int {
	return slices.Clone(ledger.chosen)
}
