package model

// greedyOptimizer visits sessions once, highest priority and fewest slots first, and keeps the first slot of each
// that fits the schedule built so far. It is fast but not optimal
type greedyOptimizer struct {
	optimizerBase
}

func (optimizer *greedyOptimizer) Optimize() (*Schedule, error) {
	return optimizer.optimize(func(graph *conflictGraph) ([]int, SearchStats, error) {
		chosen, stats := greedy(graph)
		return chosen, stats, nil
	})
}

func greedy(graph *conflictGraph) ([]int, SearchStats) {
	ledger := newLedger(graph)
	stats := SearchStats{}

	for _, session := range graph.order {
		stats.NodesVisited++
		for _, option := range graph.sessionOptions[session] {
			if ledger.fits(option) {
				ledger.push(option)
				break
			}
		}
	}

	return ledger.snapshot(), stats
}
