package model

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Conflicts checks whether attending both slots is impossible, either because they overlap or because the gap
// between them is shorter than the travel time between their locations. It is symmetric in a and b
func Conflicts(a, b TimeSlot, travelTimes *TravelTimes) (bool, error) {
	if a.Overlaps(b) {
		return true, nil
	}

	minutes, err := travelTimes.Minutes(a.Location, b.Location)
	if err != nil {
		return false, err
	}

	// Slots do not overlap, so the one starting first also ends first
	earlier, later := a, b
	if later.Start.Before(earlier.Start) {
		earlier, later = later, earlier
	}
	return later.Start.Sub(earlier.End) < time.Duration(minutes)*time.Minute, nil
}

func ConflictsEntries(a, b ScheduleEntry, travelTimes *TravelTimes) (bool, error) {
	return Conflicts(a.TimeSlot, b.TimeSlot, travelTimes)
}

// An option is one candidate slot of one session, i.e. one decision variable
type option struct {
	session int
	slot    int
}

// conflictGraph precomputes the conflict relation between the options of different sessions, so that every
// strategy works on the same relation and travel-time lookup failures surface before any search starts
type conflictGraph struct {
	input          Input
	options        []option
	sessionOptions [][]int  // Options of each session, in slot order
	conflicts      [][]bool // conflicts[a][b] for options a and b of different sessions
	order          []int    // Sessions in visiting order
}

func buildConflictGraph(input Input) (*conflictGraph, error) {
	graph := &conflictGraph{
		input:          input,
		sessionOptions: make([][]int, len(input.Sessions)),
		order:          visitingOrder(input.Sessions),
	}

	for i, session := range input.Sessions {
		for j := range session.TimeSlots {
			graph.sessionOptions[i] = append(graph.sessionOptions[i], len(graph.options))
			graph.options = append(graph.options, option{session: i, slot: j})
		}
	}

	graph.conflicts = make([][]bool, len(graph.options))
	for i := range graph.options {
		graph.conflicts[i] = make([]bool, len(graph.options))
	}

	for i := range len(graph.options) - 1 {
		for j := i + 1; j < len(graph.options); j++ {
			option1, option2 := graph.options[i], graph.options[j]
			if option1.session == option2.session {
				continue
			}

			conflict, err := Conflicts(graph.slot(i), graph.slot(j), input.TravelTimes)
			if err != nil {
				return nil, fmt.Errorf("sessions %q and %q: %w", input.Sessions[option1.session].Id, input.Sessions[option2.session].Id, err)
			}
			graph.conflicts[i][j], graph.conflicts[j][i] = conflict, conflict
		}
	}

	return graph, nil
}

func (graph *conflictGraph) slot(option int) TimeSlot {
	o := graph.options[option]
	return graph.input.Sessions[o.session].TimeSlots[o.slot]
}

func (graph *conflictGraph) session(option int) Session {
	return graph.input.Sessions[graph.options[option].session]
}

func (graph *conflictGraph) priority(option int) Priority {
	return graph.session(option).Priority
}

// Conflicting pairs of options, each pair reported once with a < b
func (graph *conflictGraph) conflictingPairs() [][2]int {
	pairs := make([][2]int, 0)
	for i := range len(graph.options) - 1 {
		for j := i + 1; j < len(graph.options); j++ {
			if graph.conflicts[i][j] {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// Higher priorities first, then sessions with fewer candidate slots, keeping input order on ties.
// Sessions with fewer options are harder to place later on, so they claim a slot while more are free
func visitingOrder(sessions []Session) []int {
	order := make([]int, len(sessions))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		if priorityComparison := cmp.Compare(sessions[b].Priority, sessions[a].Priority); priorityComparison != 0 {
			return priorityComparison
		}
		return cmp.Compare(len(sessions[a].TimeSlots), len(sessions[b].TimeSlots))
	})
	return order
}
