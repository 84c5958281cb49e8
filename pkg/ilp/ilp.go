package ilp

import (
	"fmt"
	"strings"
)

type Sense int

const (
	LessOrEqual Sense = iota
	GreaterOrEqual
	Equal
)

func (sense Sense) String() string {
	switch sense {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	case Equal:
		return "="
	}
	return fmt.Sprintf("Sense(%d)", int(sense))
}

// Term is Coefficient * x_Variable, variables being zero-based indices into ILP.Variables
type Term struct {
	Variable    int
	Coefficient int
}

type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	Bound int
}

// ILP is a binary integer program: every variable takes the value 0 or 1 and every coefficient is integral
type ILP struct {
	Variables   []string // Human-readable variable names, used only for diagnostics
	Constraints []Constraint
	Objective   []Term
	Maximize    bool
}

func (problem ILP) Validate() error {
	check := func(terms []Term, owner string) error {
		for _, term := range terms {
			if term.Variable < 0 || term.Variable >= len(problem.Variables) {
				return fmt.Errorf("%v references unknown variable %d (variables: %d)", owner, term.Variable, len(problem.Variables))
			}
		}
		return nil
	}

	if err := check(problem.Objective, "objective"); err != nil {
		return err
	}
	for i, constraint := range problem.Constraints {
		if err := check(constraint.Terms, fmt.Sprintf("constraint %d (%v)", i, constraint.Name)); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate returns the objective value of the given assignment
func (problem ILP) Evaluate(values []bool) int {
	return evaluate(problem.Objective, values)
}

// Satisfied checks whether the given assignment satisfies every constraint
func (problem ILP) Satisfied(values []bool) bool {
	if len(values) != len(problem.Variables) {
		return false
	}
	for _, constraint := range problem.Constraints {
		lhs := evaluate(constraint.Terms, values)
		switch constraint.Sense {
		case LessOrEqual:
			if lhs > constraint.Bound {
				return false
			}
		case GreaterOrEqual:
			if lhs < constraint.Bound {
				return false
			}
		case Equal:
			if lhs != constraint.Bound {
				return false
			}
		}
	}
	return true
}

// ToCPLEX renders the problem in CPLEX-LP format, the format read by glpsol's --lp flag
func (problem ILP) ToCPLEX() string {
	var builder strings.Builder

	if problem.Maximize {
		builder.WriteString("Maximize\n")
	} else {
		builder.WriteString("Minimize\n")
	}
	builder.WriteString(" obj:")
	if len(problem.Objective) == 0 && len(problem.Variables) > 0 {
		builder.WriteString(" 0 x0")
	}
	writeTerms(&builder, problem.Objective)
	builder.WriteString("\n")

	builder.WriteString("Subject To\n")
	for i, constraint := range problem.Constraints {
		fmt.Fprintf(&builder, " c%d:", i)
		writeTerms(&builder, constraint.Terms)
		fmt.Fprintf(&builder, " %v %d\n", constraint.Sense, constraint.Bound)
	}

	builder.WriteString("Binary\n")
	for i := range problem.Variables {
		fmt.Fprintf(&builder, " x%d\n", i)
	}
	builder.WriteString("End\n")
	return builder.String()
}

func writeTerms(builder *strings.Builder, terms []Term) {
	for i, term := range terms {
		// Keep lines short, some LP readers reject lines longer than 255 characters
		if i > 0 && i%8 == 0 {
			builder.WriteString("\n  ")
		}
		sign := "+"
		coefficient := term.Coefficient
		if coefficient < 0 {
			sign, coefficient = "-", -coefficient
		}
		fmt.Fprintf(builder, " %v %d x%d", sign, coefficient, term.Variable)
	}
}

func evaluate(terms []Term, values []bool) int {
	total := 0
	for _, term := range terms {
		if term.Variable < len(values) && values[term.Variable] {
			total += term.Coefficient
		}
	}
	return total
}
