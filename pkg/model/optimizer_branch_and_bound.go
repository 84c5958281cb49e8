package model

// branchAndBoundOptimizer runs the backtracking search, pruning every subtree whose optimistic bound cannot
// strictly beat the best schedule found so far. It returns a schedule of the same score as backtracking
type branchAndBoundOptimizer struct {
	optimizerBase
}

func (optimizer *branchAndBoundOptimizer) Optimize() (*Schedule, error) {
	return optimizer.optimize(func(graph *conflictGraph) ([]int, SearchStats, error) {
		estimator, err := newBoundEstimator(optimizer.options.bound, graph)
		if err != nil {
			return nil, SearchStats{}, err
		}

		search := newDepthFirstSearch(graph, estimator)
		if optimizer.options.greedySeed {
			chosen, _ := greedy(graph)
			search.seed(chosen)
		}
		search.explore(0)

		optimizer.options.logger.Debug().
			Str("strategy", string(optimizer.strategy)).
			Str("bound", string(optimizer.options.bound)).
			Uint64("nodesVisited", search.stats.NodesVisited).
			Uint64("branchesPruned", search.stats.BranchesPruned).
			Msg("search finished")
		return search.best, search.stats, nil
	})
}
