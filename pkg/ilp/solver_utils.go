package ilp

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// ConfigPath points to a JSON file mapping executable keys (e.g. "glpsolPath") to paths
var ConfigPath = "config.json"

// Parses the plain-text solution written by glpsol -w (glp_write_mip format)
//
//	s mip <rows> <cols> <status> <objective>
//	j <col> <value>
func parseMIPSolution(solverOutput string, variables int) (ILPSolution, error) {
	lines := lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
		return len(line) > 0 && line[0] != 'c'
	})

	header, ok := lo.Find(lines, func(line string) bool { return strings.HasPrefix(line, "s mip") })
	if !ok {
		return ILPSolution{}, fmt.Errorf("missing solution line in glpsol output")
	}
	fields := strings.Fields(header)
	if len(fields) < 5 {
		return ILPSolution{}, fmt.Errorf("invalid solution line in glpsol output: %q", header)
	}

	solution := ILPSolution{}
	switch fields[4] {
	case "o":
		solution.Status = Optimal
	case "f":
		solution.Status = Feasible
	case "n":
		return ILPSolution{Status: Infeasible}, nil
	default:
		return ILPSolution{Status: Unknown}, nil
	}

	solution.Values = make([]bool, variables)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "j" {
			continue
		}
		column, err := strconv.Atoi(fields[1])
		if err != nil || column < 1 || column > variables {
			return ILPSolution{}, fmt.Errorf("invalid column in glpsol output: %q", line)
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return ILPSolution{}, fmt.Errorf("invalid value in glpsol output: %q", line)
		}
		solution.Values[column-1] = math.Round(value) == 1
	}

	return solution, nil
}

// Resolves an executable from the config file, falling back to the PATH
func getExecutablePath(key, fallback string) (string, error) {
	if bytes, err := os.ReadFile(ConfigPath); err == nil {
		var inputJson map[string]any
		if err := json.Unmarshal(bytes, &inputJson); err != nil {
			return "", fmt.Errorf("%w: cannot read %v: %v", ErrUnavailable, ConfigPath, err)
		}

		var config map[string]string
		if err := mapstructure.WeakDecode(inputJson, &config); err != nil {
			return "", fmt.Errorf("%w: cannot decode %v: %v", ErrUnavailable, ConfigPath, err)
		}

		if path, ok := config[key]; ok && path != "" {
			return path, nil
		}
	}

	path, err := exec.LookPath(fallback)
	if err != nil {
		return "", fmt.Errorf("%w: %q is neither configured in %v nor present in PATH", ErrUnavailable, fallback, ConfigPath)
	}
	return path, nil
}
