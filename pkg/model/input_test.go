package model

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioJSON = `{
	"locations": [
		{"id": "A", "name": "Hall A", "building": "north"},
		{"id": "B", "name": "Hall B", "building": "south"}
	],
	"travelTimes": [
		{"from": "A", "to": "B", "minutes": 15}
	],
	"sessions": [
		{
			"id": "keynote",
			"title": "Opening keynote",
			"priority": "must_attend",
			"timeSlots": [{"start": "2025-06-02T09:00:00Z", "end": "2025-06-02T10:00:00Z", "location": "A"}]
		},
		{
			"id": "workshop",
			"title": "Hands-on workshop",
			"priority": "optional",
			"timeSlots": [
				{"start": "2025-06-02T10:05:00Z", "end": "2025-06-02T11:00:00Z", "location": "B"},
				{"start": "2025-06-02T11:00:00Z", "end": "2025-06-02T12:00:00Z", "location": "A"}
			]
		}
	]
}`

const scenarioYAML = `
locations:
  - id: A
    name: Hall A
  - id: B
    name: Hall B
fallbackTravelTime: 10
sessions:
  - id: keynote
    priority: must-attend
    timeSlots:
      - start: "2025-06-02T09:00:00Z"
        end: "2025-06-02T10:00:00Z"
        location: A
  - id: workshop
    priority: optional
    timeSlots:
      - start: "2025-06-02T10:05:00Z"
        end: "2025-06-02T11:00:00Z"
        location: B
`

func writeScenario(t *testing.T, name, content string) string {
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestInputFromJSONFile(t *testing.T) {
	//** Arrange
	file := writeScenario(t, "scenario.json", scenarioJSON)

	//** Act
	input, err := InputFromFile(file)

	//** Assert
	require.NoError(t, err)
	require.Len(t, input.Sessions, 2)

	keynote, workshop := input.Sessions[0], input.Sessions[1]
	assert.Equal(t, "keynote", keynote.Id)
	assert.Equal(t, "Opening keynote", keynote.Title)
	assert.Equal(t, MustAttend, keynote.Priority)
	assert.Equal(t, Optional, workshop.Priority)
	require.Len(t, workshop.TimeSlots, 2)
	assert.Equal(t, at(10, 5), workshop.TimeSlots[0].Start.UTC())

	// Slots at the same venue share one location
	assert.Same(t, keynote.TimeSlots[0].Location, workshop.TimeSlots[1].Location)
	assert.Equal(t, "north", keynote.TimeSlots[0].Location.Building)

	minutes, err := input.TravelTimes.Minutes(workshop.TimeSlots[0].Location, keynote.TimeSlots[0].Location)
	require.NoError(t, err)
	assert.Equal(t, 15, minutes)
}

func TestInputFromYAMLFile(t *testing.T) {
	file := writeScenario(t, "scenario.yaml", scenarioYAML)

	input, err := InputFromFile(file)

	require.NoError(t, err)
	require.Len(t, input.Sessions, 2)
	assert.Equal(t, MustAttend, input.Sessions[0].Priority)

	// No pair is listed, the fallback applies
	minutes, err := input.TravelTimes.Minutes(hallA, hallB)
	require.NoError(t, err)
	assert.Equal(t, 10, minutes)
}

func TestInputFromFileErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"sessions": [`},
		{name: "unknown location", content: `{"locations": [{"id": "A"}], "sessions": [{"id": "s", "priority": "optional", "timeSlots": [{"start": "2025-06-02T09:00:00Z", "end": "2025-06-02T10:00:00Z", "location": "Z"}]}]}`},
		{name: "unknown priority", content: `{"locations": [{"id": "A"}], "sessions": [{"id": "s", "priority": "urgent", "timeSlots": [{"start": "2025-06-02T09:00:00Z", "end": "2025-06-02T10:00:00Z", "location": "A"}]}]}`},
		{name: "negative travel time", content: `{"locations": [{"id": "A"}, {"id": "B"}], "travelTimes": [{"from": "A", "to": "B", "minutes": -3}], "sessions": []}`},
		{name: "travel time to unknown location", content: `{"locations": [{"id": "A"}], "travelTimes": [{"from": "A", "to": "Z", "minutes": 3}], "sessions": []}`},
		{name: "bad timestamp", content: `{"locations": [{"id": "A"}], "sessions": [{"id": "s", "priority": "optional", "timeSlots": [{"start": "nine", "end": "ten", "location": "A"}]}]}`},
		{name: "session without slots", content: `{"locations": [{"id": "A"}], "sessions": [{"id": "s", "priority": "optional", "timeSlots": []}]}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := InputFromFile(writeScenario(t, "scenario.json", testCase.content))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := InputFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInputValidate(t *testing.T) {
	//** Arrange
	input := Input{
		Sessions: []Session{
			session("empty", MustAttend),
			session("reversed", Optional, slot(10, 0, 9, 0, hallA)),
			session("instant", Optional, slot(10, 0, 10, 0, hallA)),
			session("nowhere", Optional, TimeSlot{Start: at(9, 0), End: at(10, 0)}),
			session("reversed", Optional, slot(9, 0, 10, 0, hallA)),
			session("", Priority(7), slot(9, 0, 10, 0, hallA)),
		},
	}

	//** Act
	err := input.Validate()

	//** Assert
	require.ErrorIs(t, err, ErrInvalidInput)
	var validationError *ValidationError
	require.True(t, errors.As(err, &validationError))
	assert.Len(t, validationError.Problems, 7)
	assert.Contains(t, err.Error(), `session "empty" has no candidate time slots`)
}

func TestParsePriority(t *testing.T) {
	for value, expected := range map[string]Priority{
		"must_attend": MustAttend,
		"MUST-ATTEND": MustAttend,
		" optional ":  Optional,
	} {
		priority, err := ParsePriority(value)
		require.NoError(t, err)
		assert.Equal(t, expected, priority)
	}

	_, err := ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "must_attend", MustAttend.String())
	assert.True(t, MustAttend > Optional)
}

func TestRawInputRoundTrip(t *testing.T) {
	//** Arrange
	input := generateInput(rand.New(rand.NewPCG(1, 2)), 6)
	bytes, err := json.MarshalIndent(ToRawInput(input), "", "  ")
	require.NoError(t, err)

	//** Act
	decoded, err := InputFromFile(writeScenario(t, "roundtrip.json", string(bytes)))

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, input.Sessions, decoded.Sessions)
	for _, from := range venues {
		for _, to := range venues {
			expected, err1 := input.TravelTimes.Minutes(from, to)
			actual, err2 := decoded.TravelTimes.Minutes(from, to)
			require.NoError(t, err1)
			require.NoError(t, err2)
			assert.Equal(t, expected, actual)
		}
	}
}
