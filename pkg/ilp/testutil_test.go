package ilp

import (
	"fmt"
	"math/rand/v2"
)

// Generates a random packing problem: maximize a positive objective under "at most" constraints
func generateILPInstance(random *rand.Rand, variables, constraints int) ILP {
	problem := ILP{
		Variables: make([]string, variables),
		Maximize:  true,
	}

	for i := range variables {
		problem.Variables[i] = fmt.Sprintf("v%d", i)
		problem.Objective = append(problem.Objective, Term{Variable: i, Coefficient: random.IntN(10) + 1})
	}

	for i := range constraints {
		constraint := Constraint{Name: fmt.Sprintf("r%d", i), Sense: LessOrEqual, Bound: random.IntN(3) + 1}
		for j := range variables {
			if random.Float32() < 0.4 {
				constraint.Terms = append(constraint.Terms, Term{Variable: j, Coefficient: random.IntN(3) + 1})
			}
		}
		problem.Constraints = append(problem.Constraints, constraint)
	}

	return problem
}

// Enumerates every assignment, only suitable for a handful of variables
func bruteForce(problem ILP) (best int, feasible bool) {
	n := len(problem.Variables)
	values := make([]bool, n)
	for mask := range 1 << n {
		for i := range n {
			values[i] = mask&(1<<i) != 0
		}
		if !problem.Satisfied(values) {
			continue
		}
		objective := problem.Evaluate(values)
		if !feasible || (problem.Maximize && objective > best) || (!problem.Maximize && objective < best) {
			best, feasible = objective, true
		}
	}
	return best, feasible
}
