package ilp

import (
	"fmt"
	"slices"

	"github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process solver that encodes the problem as pseudo-boolean constraints
func NewGophersatSolver() ILPSolver {
	return &gophersatSolver{}
}

func (gs *gophersatSolver) Solve(problem ILP) (ILPSolution, error) {
	if err := problem.Validate(); err != nil {
		return ILPSolution{}, fmt.Errorf("invalid problem: %w", err)
	} else if len(problem.Variables) == 0 {
		if !problem.Satisfied([]bool{}) {
			return ILPSolution{Status: Infeasible}, nil
		}
		return ILPSolution{Status: Optimal, Values: []bool{}}, nil
	}

	constraints := make([]solver.PBConstr, 0, len(problem.Constraints))
	for _, constraint := range problem.Constraints {
		lits, weights, bound := normalize(constraint.Terms, constraint.Bound)
		// gophersat's constructors rewrite lits and weights in place, each half of an equality needs its own copy
		switch constraint.Sense {
		case LessOrEqual:
			constraints = append(constraints, solver.LtEq(lits, weights, bound))
		case GreaterOrEqual:
			constraints = append(constraints, solver.GtEq(lits, weights, bound))
		case Equal:
			constraints = append(constraints,
				solver.LtEq(slices.Clone(lits), slices.Clone(weights), bound),
				solver.GtEq(slices.Clone(lits), slices.Clone(weights), bound))
		default:
			return ILPSolution{}, fmt.Errorf("unsupported constraint sense %v in %q", constraint.Sense, constraint.Name)
		}
	}

	// Trivial "at most 1" constraints declare every variable, including those appearing only in the objective
	for variable := range problem.Variables {
		constraints = append(constraints, solver.AtMost([]int{variable + 1}, 1))
	}
	pb := solver.ParsePBConstrs(constraints)

	// gophersat minimizes, so maximizing w*x amounts to minimizing w*(not x)
	costLits, costWeights := make([]solver.Lit, 0, len(problem.Objective)), make([]int, 0, len(problem.Objective))
	for _, term := range problem.Objective {
		if term.Coefficient == 0 {
			continue
		}
		literal := int32(term.Variable + 1)
		weight := term.Coefficient
		if weight < 0 {
			literal, weight = -literal, -weight
		}
		if problem.Maximize {
			literal = -literal
		}
		costLits = append(costLits, solver.IntToLit(literal))
		costWeights = append(costWeights, weight)
	}

	if len(costLits) > 0 {
		pb.SetCostFunc(costLits, costWeights)
	}

	s := solver.New(pb)
	if len(costLits) > 0 {
		if cost := s.Minimize(); cost < 0 {
			return ILPSolution{Status: Infeasible}, nil
		}
	} else if s.Solve() != solver.Sat {
		return ILPSolution{Status: Infeasible}, nil
	}
	values := slices.Clone(s.Model()[:len(problem.Variables)])
	if !problem.Satisfied(values) {
		return ILPSolution{}, fmt.Errorf("%w: reported optimum violates the constraints", ErrInconsistent)
	}

	return ILPSolution{
		Status:    Optimal,
		Values:    values,
		Objective: problem.Evaluate(values),
	}, nil
}

// Turns every negative coefficient c*x into |c|*(not x), shifting the bound by |c|
func normalize(terms []Term, bound int) (lits []int, weights []int, normalizedBound int) {
	lits, weights, normalizedBound = make([]int, 0, len(terms)), make([]int, 0, len(terms)), bound
	for _, term := range terms {
		literal, weight := term.Variable+1, term.Coefficient
		if weight == 0 {
			continue
		} else if weight < 0 {
			literal, weight = -literal, -weight
			normalizedBound += weight
		}
		lits = append(lits, literal)
		weights = append(weights, weight)
	}
	return lits, weights, normalizedBound
}
