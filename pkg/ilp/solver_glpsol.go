package ilp

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

type glpsolSolver struct{}

// NewGlpsolSolver returns a solver that runs GLPK's glpsol executable over a CPLEX-LP file
func NewGlpsolSolver() ILPSolver {
	return &glpsolSolver{}
}

func (solver *glpsolSolver) Solve(problem ILP) (ILPSolution, error) {
	if err := problem.Validate(); err != nil {
		return ILPSolution{}, fmt.Errorf("invalid problem: %v", err)
	}

	glpsolPath, err := getExecutablePath("glpsolPath", "glpsol")
	if err != nil {
		return ILPSolution{}, err
	}
	lp := problem.ToCPLEX() // Transform ILP into CPLEX-LP string format

	// Create a temporary file to hold the CPLEX-LP content
	inputTempFile, err := os.CreateTemp("", "problem-*.lp")
	if err != nil {
		return ILPSolution{}, fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(inputTempFile.Name()) // Ensure the file is removed after execution

	outputTempFile, err := os.CreateTemp("", "glpsol_output-*.txt")
	if err != nil {
		return ILPSolution{}, fmt.Errorf("failed to create temporary file: %v", err)
	}
	outputTempFile.Close()
	defer os.Remove(outputTempFile.Name()) // Ensure the file is removed after execution

	// Write the CPLEX-LP content to the temporary file
	if _, err := inputTempFile.WriteString(lp); err != nil {
		return ILPSolution{}, fmt.Errorf("failed to write CPLEX-LP to temporary file: %v", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return ILPSolution{}, fmt.Errorf("failed to close temporary file: %v", err)
	}

	cmd := exec.Command(glpsolPath, "--lp", inputTempFile.Name(), "-w", outputTempFile.Name())

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return ILPSolution{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	} else if err != nil {
		return ILPSolution{}, fmt.Errorf("an error occurred during glpsol execution: %v : %v %v", err.Error(), stdOut.String(), stderr.String())
	}

	output, err := os.ReadFile(outputTempFile.Name()) // Read the output file
	if err != nil {
		return ILPSolution{}, fmt.Errorf("failed to read output file: %v", err)
	}

	solution, err := parseMIPSolution(string(output), len(problem.Variables))
	if err != nil {
		return ILPSolution{}, err
	}
	solution.Objective = problem.Evaluate(solution.Values)
	return solution, nil
}
