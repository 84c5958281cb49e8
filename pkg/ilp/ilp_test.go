package ilp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleProblem() ILP {
	return ILP{
		Variables: []string{"a", "b", "c"},
		Constraints: []Constraint{
			{Name: "pair", Terms: []Term{{0, 1}, {1, 1}}, Sense: LessOrEqual, Bound: 1},
			{Name: "cover", Terms: []Term{{1, 1}, {2, 1}}, Sense: GreaterOrEqual, Bound: 1},
		},
		Objective: []Term{{0, 1000}, {1, 1}, {2, -2}},
		Maximize:  true,
	}
}

func TestToCPLEX(t *testing.T) {
	//** Arrange
	problem := sampleProblem()

	//** Act
	lp := problem.ToCPLEX()

	//** Assert
	assert.True(t, strings.HasPrefix(lp, "Maximize\n obj: + 1000 x0 + 1 x1 - 2 x2\n"))
	assert.Contains(t, lp, " c0: + 1 x0 + 1 x1 <= 1\n")
	assert.Contains(t, lp, " c1: + 1 x1 + 1 x2 >= 1\n")
	assert.Contains(t, lp, "Binary\n x0\n x1\n x2\nEnd\n")
}

func TestSatisfiedAndEvaluate(t *testing.T) {
	problem := sampleProblem()

	assert.True(t, problem.Satisfied([]bool{true, false, true}))
	assert.Equal(t, 998, problem.Evaluate([]bool{true, false, true}))

	assert.False(t, problem.Satisfied([]bool{true, true, false}))  // Violates "pair"
	assert.False(t, problem.Satisfied([]bool{true, false, false})) // Violates "cover"
	assert.False(t, problem.Satisfied([]bool{true}))               // Wrong arity
}

func TestValidate(t *testing.T) {
	problem := sampleProblem()
	assert.NoError(t, problem.Validate())

	problem.Constraints[0].Terms = append(problem.Constraints[0].Terms, Term{Variable: 7, Coefficient: 1})
	assert.ErrorContains(t, problem.Validate(), "unknown variable 7")
}
