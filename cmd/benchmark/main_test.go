package main

import (
	"testing"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/limaJavier/sessionplanner/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
}

func TestParseTimeLines(t *testing.T) {
	assert.Equal(t, int64(2*1000+500), parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 0:02.50"))
	assert.InDelta(t, float32(12.5), parseMemoryLine("\tMaximum resident set size (kbytes): 12800"), 0.001)
	assert.Equal(t, int64(97), parseCpuPercentageLine("\tPercent of CPU this job got: 97%"))
}

func TestGetTests(t *testing.T) {
	//** Act
	tests := getTests()

	//** Assert
	require.GreaterOrEqual(t, len(tests), len(scenario.Names()))
	for _, test := range tests {
		assert.NotEmpty(t, test.Args, test.Name)
		assert.Positive(t, test.Sessions, test.Name)
		assert.GreaterOrEqual(t, test.Slots, test.Sessions, test.Name)
		assert.LessOrEqual(t, test.MustCount, test.Sessions, test.Name)
	}
}

func TestToRecord(t *testing.T) {
	//** Arrange
	result := BenchmarkResult{
		Strategy: StrategyMetadata{Strategy: model.BranchAndBound, Bound: model.MatchingBound},
		Test:     TestMetadata{Name: "simple", Sessions: 3, MustCount: 2, Slots: 4},
		Run:      "run-id",
		Duration: 120,
		Memory:   12.5,
		Score:    model.Score{MustAttend: 2, Optional: 1},
		Nodes:    7,
		Pruned:   3,
	}

	//** Act
	record := toRecord(result)

	//** Assert
	assert.Equal(t, []string{"branch-and-bound", "matching", "simple", "3", "2", "4", "run-id", "120", "12.5", "0", "2", "1", "7", "3", "solved"}, record)
}
