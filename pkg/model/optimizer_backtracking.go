package model

// backtrackingOptimizer explores every combination of slot choices, including leaving each session out, and keeps
// the best complete schedule found. It is exact and exponential in the number of sessions
type backtrackingOptimizer struct {
	optimizerBase
}

func (optimizer *backtrackingOptimizer) Optimize() (*Schedule, error) {
	return optimizer.optimize(func(graph *conflictGraph) ([]int, SearchStats, error) {
		search := newDepthFirstSearch(graph, nil)
		search.explore(0)
		return search.best, search.stats, nil
	})
}

// depthFirstSearch decides sessions one at a time in visiting order. When an estimator is set, subtrees that
// cannot beat the incumbent are pruned
type depthFirstSearch struct {
	graph     *conflictGraph
	ledger    *ledger
	estimator boundEstimator

	best      []int
	bestScore Score
	stats     SearchStats
}

func newDepthFirstSearch(graph *conflictGraph, estimator boundEstimator) *depthFirstSearch {
	return &depthFirstSearch{
		graph:     graph,
		ledger:    newLedger(graph),
		estimator: estimator,
		best:      make([]int, 0),
	}
}

// seed installs an incumbent schedule, subsequent leaves replace it only when strictly better
func (search *depthFirstSearch) seed(chosen []int) {
	score := Score{}
	for _, option := range chosen {
		score = score.Add(search.graph.priority(option), 1)
	}
	search.best, search.bestScore = chosen, score
}

// Recursion depth is bounded by the number of sessions
func (search *depthFirstSearch) explore(depth int) {
	search.stats.NodesVisited++

	if search.estimator != nil {
		bound := search.estimator.estimate(depth, search.ledger, search.bestScore)
		if search.ledger.score.Plus(bound).Compare(search.bestScore) <= 0 {
			search.stats.BranchesPruned++
			return
		}
	}

	if depth == len(search.graph.order) {
		if search.ledger.score.Compare(search.bestScore) > 0 {
			search.best, search.bestScore = search.ledger.snapshot(), search.ledger.score
		}
		return
	}

	session := search.graph.order[depth]
	for _, option := range search.graph.sessionOptions[session] {
		if search.ledger.fits(option) {
			search.ledger.push(option)
			search.explore(depth + 1)
			search.ledger.pop()
		}
	}

	// Leave the session out
	search.explore(depth + 1)
}
