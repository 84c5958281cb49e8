package model

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// BoundPolicy selects how branch-and-bound estimates what the undecided sessions can still add
type BoundPolicy string

const (
	// CountBound assumes every undecided session can still be scheduled
	CountBound BoundPolicy = "count"
	// MatchingBound counts, per priority, the largest set of undecided sessions that can be given pairwise distinct
	// slots among those still fitting the partial schedule. Identical slots always overlap, so it never
	// underestimates, and it is at most as large as CountBound
	MatchingBound BoundPolicy = "matching"
)

func BoundPolicies() []BoundPolicy {
	return []BoundPolicy{CountBound, MatchingBound}
}

func (policy BoundPolicy) Valid() bool {
	return lo.Contains(BoundPolicies(), policy)
}

type boundEstimator interface {
	// estimate returns an upper bound of the score the sessions from depth onward can add to the ledger
	estimate(depth int, ledger *ledger, best Score) Score
}

func newBoundEstimator(policy BoundPolicy, graph *conflictGraph) (boundEstimator, error) {
	switch policy {
	case CountBound:
		return newCountBound(graph), nil
	case MatchingBound:
		return &matchingBound{graph: graph}, nil
	}
	return nil, fmt.Errorf("unknown bound policy %q", policy)
}

type countBound struct {
	suffix []Score // suffix[depth] counts the sessions at positions depth onward of the visiting order
}

func newCountBound(graph *conflictGraph) *countBound {
	suffix := make([]Score, len(graph.order)+1)
	for depth := len(graph.order) - 1; depth >= 0; depth-- {
		priority := graph.input.Sessions[graph.order[depth]].Priority
		suffix[depth] = suffix[depth+1].Add(priority, 1)
	}
	return &countBound{suffix: suffix}
}

func (bound *countBound) estimate(depth int, _ *ledger, _ Score) Score {
	return bound.suffix[depth]
}

type matchingBound struct {
	graph *conflictGraph
}

func (bound *matchingBound) estimate(depth int, ledger *ledger, best Score) Score {
	// Options of the undecided sessions that still fit, per priority
	fitting := make(map[Priority]map[int][]int)
	feasible := Score{}
	for _, session := range bound.graph.order[depth:] {
		options := lo.Filter(bound.graph.sessionOptions[session], func(option int, _ int) bool {
			return ledger.fits(option)
		})
		if len(options) == 0 {
			continue
		}

		priority := bound.graph.input.Sessions[session].Priority
		if _, ok := fitting[priority]; !ok {
			fitting[priority] = make(map[int][]int)
		}
		fitting[priority][session] = options
		feasible = feasible.Add(priority, 1)
	}

	// Sessions without fitting options are already discounted, skip the matchings when that alone prunes
	if ledger.score.Plus(feasible).Compare(best) <= 0 {
		return feasible
	}

	estimate := Score{}
	for priority, sessions := range fitting {
		estimate = estimate.Add(priority, bound.largestMatching(sessions))
	}
	return estimate
}

// largestMatching matches sessions to distinct slot keys among their fitting options
func (bound *matchingBound) largestMatching(sessions map[int][]int) int {
	keys := make([]SlotKey, 0)
	indexed := make(map[SlotKey]bool)
	relationships := make(map[int]map[SlotKey]bool, len(sessions))
	for session, options := range sessions {
		relationships[session] = make(map[SlotKey]bool, len(options))
		for _, option := range options {
			key := bound.graph.slot(option).Key()
			if !indexed[key] {
				indexed[key] = true
				keys = append(keys, key)
			}
			relationships[session][key] = true
		}
	}

	neighbors := func(sessionAny any, keyAny any) (bool, error) {
		return relationships[sessionAny.(int)][keyAny.(SlotKey)], nil
	}

	sessionsAny := lo.Map(lo.Keys(sessions), func(session int, _ int) any { return session })
	keysAny := lo.Map(keys, func(key SlotKey, _ int) any { return key })

	graph, err := bipartitegraph.NewBipartiteGraph(sessionsAny, keysAny, neighbors)
	if err != nil {
		return min(len(sessions), len(keys))
	}
	return len(graph.LargestMatching())
}
