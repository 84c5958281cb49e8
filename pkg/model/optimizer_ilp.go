package model

import (
	"errors"
	"fmt"

	"github.com/limaJavier/sessionplanner/pkg/ilp"
	"github.com/samber/lo"
)

// ilpOptimizer formulates the problem as a 0-1 program with one variable per (session, slot) option and hands it
// to an external solver
type ilpOptimizer struct {
	optimizerBase
}

func (optimizer *ilpOptimizer) Optimize() (*Schedule, error) {
	return optimizer.optimize(func(graph *conflictGraph) ([]int, SearchStats, error) {
		if len(graph.options) == 0 {
			return []int{}, SearchStats{}, nil
		}

		problem := formulate(graph)
		optimizer.options.logger.Debug().
			Str("strategy", string(optimizer.strategy)).
			Int("variables", len(problem.Variables)).
			Int("constraints", len(problem.Constraints)).
			Msg("0-1 program formulated")

		solution, err := optimizer.options.solver.Solve(problem)
		if errors.Is(err, ilp.ErrUnavailable) {
			return nil, SearchStats{}, fmt.Errorf("%w: %w", ErrSolverUnavailable, err)
		} else if err != nil {
			return nil, SearchStats{}, fmt.Errorf("%w: %w", ErrSolverFailed, err)
		} else if solution.Status != ilp.Optimal {
			return nil, SearchStats{}, fmt.Errorf("%w: solver reported %v", ErrSolverFailed, solution.Status)
		} else if len(solution.Values) != len(graph.options) {
			return nil, SearchStats{}, fmt.Errorf("%w: solver returned %d values for %d variables", ErrSolverFailed, len(solution.Values), len(graph.options))
		}

		chosen := make([]int, 0)
		for option, value := range solution.Values {
			if value {
				chosen = append(chosen, option)
			}
		}

		// Never trust the assignment blindly
		if _, err := graph.schedule(chosen); err != nil {
			return nil, SearchStats{}, fmt.Errorf("%w: %w", ErrSolverFailed, err)
		}
		return chosen, SearchStats{}, nil
	})
}

// Objective weights: a must-attend session outweighs all optional sessions together
func objectiveWeights(graph *conflictGraph) map[Priority]int {
	optionalSessions := lo.CountBy(graph.input.Sessions, func(session Session) bool {
		return session.Priority == Optional
	})
	return map[Priority]int{
		MustAttend: max(1000, optionalSessions+1),
		Optional:   1,
	}
}

func formulate(graph *conflictGraph) ilp.ILP {
	weights := objectiveWeights(graph)

	problem := ilp.ILP{
		Variables: lo.Map(graph.options, func(o option, _ int) string {
			return fmt.Sprintf("%v@%d", graph.input.Sessions[o.session].Id, o.slot)
		}),
		Objective: lo.Map(graph.options, func(o option, i int) ilp.Term {
			return ilp.Term{Variable: i, Coefficient: weights[graph.input.Sessions[o.session].Priority]}
		}),
		Maximize:    true,
		Constraints: make([]ilp.Constraint, 0),
	}

	constraints := []func(graph *conflictGraph) []ilp.Constraint{
		sessionConstraints,
		conflictConstraints,
	}

	// Generate constraint families concurrently, then append them in a fixed order
	results := make([]chan []ilp.Constraint, len(constraints))
	for i, constraint := range constraints {
		results[i] = make(chan []ilp.Constraint, 1)
		go func(constraint func(graph *conflictGraph) []ilp.Constraint, result chan<- []ilp.Constraint) {
			result <- constraint(graph)
		}(constraint, results[i])
	}
	for _, result := range results {
		problem.Constraints = append(problem.Constraints, <-result...)
	}

	return problem
}

// Each session is attended at most once
func sessionConstraints(graph *conflictGraph) []ilp.Constraint {
	constraints := make([]ilp.Constraint, 0, len(graph.sessionOptions))
	for session, options := range graph.sessionOptions {
		constraints = append(constraints, ilp.Constraint{
			Name: fmt.Sprintf("once_%v", graph.input.Sessions[session].Id),
			Terms: lo.Map(options, func(option int, _ int) ilp.Term {
				return ilp.Term{Variable: option, Coefficient: 1}
			}),
			Sense: ilp.LessOrEqual,
			Bound: 1,
		})
	}
	return constraints
}

// Conflicting options of different sessions exclude each other
func conflictConstraints(graph *conflictGraph) []ilp.Constraint {
	return lo.Map(graph.conflictingPairs(), func(pair [2]int, _ int) ilp.Constraint {
		return ilp.Constraint{
			Name:  fmt.Sprintf("conflict_%d_%d", pair[0], pair[1]),
			Terms: []ilp.Term{{Variable: pair[0], Coefficient: 1}, {Variable: pair[1], Coefficient: 1}},
			Sense: ilp.LessOrEqual,
			Bound: 1,
		}
	})
}
