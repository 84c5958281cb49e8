package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/limaJavier/sessionplanner/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the commands away from any config.json or SESSIONPLANNER_* variable of the host
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("SESSIONPLANNER_CONFIG", filepath.Join(t.TempDir(), "config.json"))
	t.Setenv("SESSIONPLANNER_ENV", "test")
	t.Setenv("SESSIONPLANNER_LOG_LEVEL", "disabled")
	for _, name := range []string{"STRATEGY", "SOLVER", "BOUND", "FALLBACK_TRAVEL_MINUTES", "TIMEOUT"} {
		t.Setenv("SESSIONPLANNER_"+name, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("wrapped: %w", model.ErrInvalidInput):     exitInvalidInput,
		&model.LookupError{From: "a", To: "b"}:               exitInvalidInput,
		fmt.Errorf("%w: glpsol", model.ErrSolverUnavailable): exitSolverUnavailable,
		fmt.Errorf("%w: status", model.ErrSolverFailed):      exitSolverFailed,
		fmt.Errorf("%w: 1s", errTimeout):                     exitTimeout,
		fmt.Errorf("%w: overlap", errUnverified):             exitUnverified,
		errors.New("anything else"):                          exitFailure,
	}

	for err, expected := range cases {
		assert.Equal(t, expected, exitCode(err), err.Error())
	}
}

func TestOptimizeScenario(t *testing.T) {
	//** Arrange
	isolate(t)

	//** Act
	out, err := execute(t, "optimize", "--scenario", "simple", "--strategy", "branch-and-bound")

	//** Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Strategy: branch-and-bound")
	assert.Contains(t, out, "Opening Keynote")
	assert.Contains(t, out, "AI/ML Workshop")
	assert.Contains(t, out, "must_attend: 2/2")
}

func TestOptimizeJsonOutput(t *testing.T) {
	//** Arrange
	isolate(t)
	expected, err := scenario.Get("conference")
	require.NoError(t, err)

	//** Act
	out, err := execute(t, "optimize", "--scenario", "conference", "--strategy", "ilp", "--format", "json")

	//** Assert
	require.NoError(t, err)
	var result renderedResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "ilp", result.Strategy)
	assert.Equal(t, len(expected.Sessions), result.Total)
	assert.Equal(t, result.Total, result.Scheduled+len(result.Unscheduled))
	assert.Len(t, result.Schedule, result.Scheduled)
	assert.Equal(t, result.Scheduled, result.Score.MustAttend+result.Score.Optional)
	assert.NotEmpty(t, result.Run)
	for i := 1; i < len(result.Schedule); i++ {
		assert.False(t, result.Schedule[i].Start.Before(result.Schedule[i-1].Start))
	}
}

func TestOptimizeWritesOutputFile(t *testing.T) {
	//** Arrange
	isolate(t)
	path := filepath.Join(t.TempDir(), "schedule.json")

	//** Act
	out, err := execute(t, "optimize", "--scenario", "sparse", "--strategy", "greedy", "--format", "json", "--out", path)

	//** Assert
	require.NoError(t, err)
	assert.Empty(t, out)
	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	var result renderedResult
	require.NoError(t, json.Unmarshal(bytes, &result))
	assert.Equal(t, "greedy", result.Strategy)
}

func TestOptimizeRejectsBadArguments(t *testing.T) {
	isolate(t)

	cases := [][]string{
		{"optimize", "--scenario", "simple", "--strategy", "simulated-annealing"},
		{"optimize", "--scenario", "nowhere"},
		{"optimize"},
		{"optimize", "--scenario", "simple", "--file", "input.json"},
		{"optimize", "--scenario", "simple", "--format", "xml"},
	}

	for _, args := range cases {
		assert.Equal(t, exitInvalidInput, run(args), args)
	}
}

func TestOptimizeUnknownSolver(t *testing.T) {
	isolate(t)

	assert.Equal(t, exitSolverUnavailable, run([]string{"optimize", "--scenario", "simple", "--strategy", "ilp", "--solver", "cplex"}))
}

func TestOptimizeMissingTravelTime(t *testing.T) {
	//** Arrange
	isolate(t)
	start := time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)
	rawInput := model.RawModelInput{
		Locations: []model.RawLocation{{Id: "north"}, {Id: "south"}},
		Sessions: []model.RawSession{
			{Id: "a", Priority: "must_attend", TimeSlots: []model.RawTimeSlot{{Start: start, End: start.Add(time.Hour), Location: "north"}}},
			{Id: "b", Priority: "optional", TimeSlots: []model.RawTimeSlot{{Start: start.Add(2 * time.Hour), End: start.Add(3 * time.Hour), Location: "south"}}},
		},
	}
	bytes, err := json.Marshal(rawInput)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, bytes, 0666))

	//** Act
	failed := run([]string{"optimize", "--file", path, "--strategy", "greedy"})
	_, fallbackErr := execute(t, "optimize", "--file", path, "--strategy", "greedy", "--fallback-travel", "10")

	//** Assert
	assert.Equal(t, exitInvalidInput, failed)
	assert.NoError(t, fallbackErr)
}

func TestCompareAgrees(t *testing.T) {
	//** Arrange
	isolate(t)

	//** Act
	out, err := execute(t, "compare", "--scenario", "heavy-conflict", "--bound", "matching")

	//** Assert
	require.NoError(t, err)
	for _, strategy := range model.Strategies() {
		assert.Contains(t, out, string(strategy))
	}
	assert.NotContains(t, out, "failed")
}

func TestScenariosListsEveryScenario(t *testing.T) {
	isolate(t)

	out, err := execute(t, "scenarios")

	require.NoError(t, err)
	for _, name := range scenario.Names() {
		assert.Contains(t, out, name)
	}
}

func TestScenarioExportRoundTrip(t *testing.T) {
	for _, format := range []string{jsonFormat, yamlFormat} {
		t.Run(format, func(t *testing.T) {
			//** Arrange
			isolate(t)
			path := filepath.Join(t.TempDir(), "conference."+format)
			expected, err := scenario.Get("conference")
			require.NoError(t, err)

			//** Act
			_, exportErr := execute(t, "scenarios", "--export", "conference", "--format", format, "--out", path)
			input, err := model.InputFromFile(path)

			//** Assert
			require.NoError(t, exportErr)
			require.NoError(t, err)
			require.Len(t, input.Sessions, len(expected.Sessions))
			for i, session := range input.Sessions {
				assert.Equal(t, expected.Sessions[i].Id, session.Id)
				assert.Equal(t, expected.Sessions[i].Priority, session.Priority)
				require.Len(t, session.TimeSlots, len(expected.Sessions[i].TimeSlots))
				for j, slot := range session.TimeSlots {
					assert.True(t, expected.Sessions[i].TimeSlots[j].Start.Equal(slot.Start))
					assert.Equal(t, expected.Sessions[i].TimeSlots[j].Location.Id, slot.Location.Id)
				}
			}
		})
	}
}

type blockingOptimizer struct {
	release chan struct{}
}

func (optimizer *blockingOptimizer) Optimize() (*model.Schedule, error) {
	<-optimizer.release
	return model.NewSchedule(), nil
}

func (optimizer *blockingOptimizer) Statistics(schedule *model.Schedule) model.Statistics {
	return model.ComputeStatistics(schedule, nil)
}

func TestOptimizeWithinTimesOut(t *testing.T) {
	//** Arrange
	optimizer := &blockingOptimizer{release: make(chan struct{})}
	defer close(optimizer.release)

	//** Act
	schedule, err := optimizeWithin(t.Context(), 10*time.Millisecond, optimizer)

	//** Assert
	assert.Nil(t, schedule)
	assert.ErrorIs(t, err, errTimeout)
	assert.Equal(t, exitTimeout, exitCode(err))
}

func TestOptimizeWithinReturnsResult(t *testing.T) {
	optimizer := &blockingOptimizer{release: make(chan struct{})}
	close(optimizer.release)

	schedule, err := optimizeWithin(t.Context(), time.Minute, optimizer)

	require.NoError(t, err)
	assert.Zero(t, schedule.Len())
}

func TestDisagreement(t *testing.T) {
	//** Arrange
	scheduleOf := func(ids ...string) *model.Schedule {
		schedule := model.NewSchedule()
		for i, id := range ids {
			start := time.Date(2025, time.December, 1, 9+2*i, 0, 0, 0, time.UTC)
			location := &model.Location{Id: "hall"}
			session := model.Session{Id: id, Priority: model.MustAttend}
			require.NoError(t, schedule.Add(session, model.TimeSlot{Start: start, End: start.Add(time.Hour), Location: location}, nil))
		}
		return schedule
	}
	agreeing := []outcome{
		{strategy: model.Greedy, schedule: scheduleOf("a")},
		{strategy: model.Backtracking, schedule: scheduleOf("a", "b")},
		{strategy: model.BranchAndBound, schedule: scheduleOf("b", "c")},
		{strategy: model.ILP, err: errTimeout},
	}
	disagreeing := append(agreeing, outcome{strategy: model.ILP, schedule: scheduleOf("a", "b", "c")})

	//** Act
	_, agreed := disagreement(agreeing)
	best, disagreed := disagreement(disagreeing)

	//** Assert
	assert.False(t, agreed)
	assert.True(t, disagreed)
	assert.Equal(t, model.Score{MustAttend: 3}, best)
}
