package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/limaJavier/sessionplanner/pkg/scenario"

	"github.com/samber/lo"
)

const (
	executablePath         = "../../bin/sessionplanner"
	timeout                = "60s"
	MB             float32 = 1024 * 1024
)

// Exit codes of the planner that still produce a benchmark row
const (
	exitOk      = 0
	exitTimeout = 5
)

type ResultType int

const (
	solved ResultType = iota
	timedOut
)

var resultTypes = map[ResultType]string{
	solved:   "solved",
	timedOut: "timeout",
}

type TestMetadata struct {
	Name      string
	Args      []string
	Sessions  int
	MustCount int
	Slots     int
}

type StrategyMetadata struct {
	Strategy model.Strategy
	Bound    model.BoundPolicy
}

type BenchmarkResult struct {
	Strategy      StrategyMetadata
	Test          TestMetadata
	Run           string
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Score         model.Score
	Nodes         uint64
	Pruned        uint64
	Result        ResultType
}

// plannerOutput is the subset of the planner's JSON output the benchmark reads
type plannerOutput struct {
	Run   string `json:"run"`
	Score struct {
		MustAttend int `json:"mustAttend"`
		Optional   int `json:"optional"`
	} `json:"score"`
	Nodes  uint64 `json:"nodesVisited"`
	Pruned uint64 `json:"branchesPruned"`
}

func main() {
	tests := getTests()
	strategies := getStrategies()
	results := make([]BenchmarkResult, 0, len(tests)*len(strategies))

	for _, test := range tests {
		for _, strategy := range strategies {
			fmt.Printf("Benchmarking test \"%v\" with strategy \"%v\" and bound \"%v\"\n", test.Name, strategy.Strategy, strategy.Bound)

			result := measure(strategy, test)
			result.Strategy, result.Test = strategy, test
			results = append(results, result)
		}
	}

	toCsv(results)
}

func getTests() []TestMetadata {
	tests := make([]TestMetadata, 0)
	for _, name := range scenario.Names() {
		input := lo.Must(scenario.Get(name))
		tests = append(tests, newTestMetadata(name, input, "--scenario", name))
	}

	for _, size := range []int{8, 12, 16, 20} {
		for seed := uint64(1); seed <= 3; seed++ {
			options := scenario.DefaultRandomOptions()
			options.Sessions = size
			input := lo.Must(scenario.Random(seed, options))
			name := fmt.Sprintf("random-%d-%d", size, seed)
			tests = append(tests, newTestMetadata(name, input, "--scenario", "random", "--sessions", fmt.Sprint(size), "--seed", fmt.Sprint(seed)))
		}
	}

	return tests
}

func newTestMetadata(name string, input model.Input, args ...string) TestMetadata {
	return TestMetadata{
		Name:      name,
		Args:      args,
		Sessions:  len(input.Sessions),
		MustCount: lo.CountBy(input.Sessions, func(session model.Session) bool { return session.Priority == model.MustAttend }),
		Slots:     lo.SumBy(input.Sessions, func(session model.Session) int { return len(session.TimeSlots) }),
	}
}

func getStrategies() []StrategyMetadata {
	return []StrategyMetadata{
		{Strategy: model.Greedy},
		{Strategy: model.Backtracking},
		{Strategy: model.BranchAndBound, Bound: model.CountBound},
		{Strategy: model.BranchAndBound, Bound: model.MatchingBound},
		{Strategy: model.ILP},
	}
}

func measure(strategy StrategyMetadata, test TestMetadata) (result BenchmarkResult) {
	args := []string{"-v", executablePath, "optimize", "--format", "json", "--timeout", timeout, "--strategy", string(strategy.Strategy)}
	if strategy.Bound != "" {
		args = append(args, "--bound", string(strategy.Bound))
	}
	cmd := exec.Command("/usr/bin/time", append(args, test.Args...)...)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	switch cmd.ProcessState.ExitCode() {
	case exitOk:
		result.Result = solved
		var output plannerOutput
		if err := json.Unmarshal(stdOut.Bytes(), &output); err != nil {
			log.Fatalf("cannot parse planner output at test \"%v\" using strategy \"%v\": %v", test.Name, strategy.Strategy, err)
		}
		result.Run = output.Run
		result.Score = model.Score{MustAttend: output.Score.MustAttend, Optional: output.Score.Optional}
		result.Nodes, result.Pruned = output.Nodes, output.Pruned
	case exitTimeout:
		result.Result = timedOut
	default:
		log.Fatalf("an error occurred during the execution \"sessionplanner\" at test \"%v\" using strategy \"%v\", bound \"%v\": %v\n", test.Name, strategy.Strategy, strategy.Bound, stdErr.String())
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	result.Duration = parseDurationLine(getLine("wall clock"))
	result.Memory = parseMemoryLine(getLine("maximum resident set size"))
	result.CpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Strategy", "Bound", "Test", "Sessions", "MustAttend", "Slots", "Run", "Duration(ms)", "Memory(MB)", "CPU(%)", "ScoreMustAttend", "ScoreOptional", "Nodes", "Pruned", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		if err := writer.Write(toRecord(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func toRecord(result BenchmarkResult) []string {
	return []string{
		string(result.Strategy.Strategy),
		string(result.Strategy.Bound),
		result.Test.Name,
		fmt.Sprintf("%d", result.Test.Sessions),
		fmt.Sprintf("%d", result.Test.MustCount),
		fmt.Sprintf("%d", result.Test.Slots),
		result.Run,
		fmt.Sprintf("%d", result.Duration),
		fmt.Sprintf("%.1f", result.Memory),
		fmt.Sprintf("%d", result.CpuPercentage),
		fmt.Sprintf("%d", result.Score.MustAttend),
		fmt.Sprintf("%d", result.Score.Optional),
		fmt.Sprintf("%d", result.Nodes),
		fmt.Sprintf("%d", result.Pruned),
		resultTypes[result.Result],
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

// parseMemoryLine converts the resident set size, reported in KB, into MB
func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) * 1024 / MB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
