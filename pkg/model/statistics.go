package model

import (
	"fmt"
	"strings"
)

type PriorityStatistics struct {
	Total      int
	Scheduled  int
	Missed     int
	Percentage float64 // Scheduled over Total, 0 when the priority has no sessions
}

type Statistics struct {
	TotalSessions       int
	ScheduledSessions   int
	UnscheduledSessions int
	ByPriority          map[Priority]PriorityStatistics
}

// ComputeStatistics summarizes how many of the given sessions the schedule covers, overall and per priority
func ComputeStatistics(schedule *Schedule, sessions []Session) Statistics {
	scheduled := make(map[string]bool)
	if schedule != nil {
		for _, entry := range schedule.entries {
			scheduled[entry.Session.Id] = true
		}
	}

	statistics := Statistics{
		TotalSessions: len(sessions),
		ByPriority:    make(map[Priority]PriorityStatistics),
	}
	for _, priority := range Priorities() {
		statistics.ByPriority[priority] = PriorityStatistics{}
	}

	for _, session := range sessions {
		priorityStatistics := statistics.ByPriority[session.Priority]
		priorityStatistics.Total++
		if scheduled[session.Id] {
			priorityStatistics.Scheduled++
			statistics.ScheduledSessions++
		} else {
			priorityStatistics.Missed++
		}
		statistics.ByPriority[session.Priority] = priorityStatistics
	}
	statistics.UnscheduledSessions = statistics.TotalSessions - statistics.ScheduledSessions

	for priority, priorityStatistics := range statistics.ByPriority {
		if priorityStatistics.Total > 0 {
			priorityStatistics.Percentage = 100 * float64(priorityStatistics.Scheduled) / float64(priorityStatistics.Total)
		}
		statistics.ByPriority[priority] = priorityStatistics
	}

	return statistics
}

func (statistics Statistics) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "scheduled %d of %d sessions (%d unscheduled)", statistics.ScheduledSessions, statistics.TotalSessions, statistics.UnscheduledSessions)
	for _, priority := range Priorities() {
		priorityStatistics := statistics.ByPriority[priority]
		fmt.Fprintf(&builder, "\n\t%v: %d/%d (%.1f%%), %d missed", priority, priorityStatistics.Scheduled, priorityStatistics.Total, priorityStatistics.Percentage, priorityStatistics.Missed)
	}
	return builder.String()
}
