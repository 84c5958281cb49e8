package ilp

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when a solver backend cannot be run at all (missing executable, bad configuration)
var ErrUnavailable = errors.New("ilp solver unavailable")

// ErrInconsistent means a backend returned an assignment that breaks the problem it was given
var ErrInconsistent = errors.New("ilp solver returned an inconsistent solution")

type Status int

const (
	Unknown Status = iota
	Optimal
	Feasible   // A solution was found but optimality was not proven
	Infeasible // No assignment satisfies the constraints
)

func (status Status) String() string {
	switch status {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	}
	return "unknown"
}

type ILPSolution struct {
	Status    Status
	Values    []bool // Values[i] is the value of variable i, only meaningful if Status is Optimal or Feasible
	Objective int
}

type ILPSolver interface {
	Solve(ILP) (ILPSolution, error) // Returns an Infeasible solution (and a nil error) when the problem has no feasible assignment
}

type SolverType string

const (
	Gophersat SolverType = "gophersat"
	Glpsol    SolverType = "glpsol"
)

var solvers = map[SolverType]func() ILPSolver{
	Gophersat: NewGophersatSolver,
	Glpsol:    NewGlpsolSolver,
}

func SolverTypes() []SolverType {
	return []SolverType{Gophersat, Glpsol}
}

func NewSolver(solverType SolverType) (ILPSolver, error) {
	constructor, ok := solvers[solverType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown solver %q", ErrUnavailable, solverType)
	}
	return constructor(), nil
}
