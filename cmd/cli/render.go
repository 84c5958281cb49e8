package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/samber/lo"
)

const (
	textFormat = "text"
	jsonFormat = "json"
)

type renderedEntry struct {
	Session  string    `json:"session"`
	Title    string    `json:"title,omitempty"`
	Priority string    `json:"priority"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
}

type renderedScore struct {
	MustAttend int `json:"mustAttend"`
	Optional   int `json:"optional"`
}

type renderedPriority struct {
	Total      int     `json:"total"`
	Scheduled  int     `json:"scheduled"`
	Missed     int     `json:"missed"`
	Percentage float64 `json:"percentage"`
}

type renderedResult struct {
	Run         string                      `json:"run"`
	Source      string                      `json:"source"`
	Strategy    string                      `json:"strategy"`
	ElapsedMs   int64                       `json:"elapsedMs"`
	Score       renderedScore               `json:"score"`
	Schedule    []renderedEntry             `json:"schedule"`
	Unscheduled []string                    `json:"unscheduled"`
	Scheduled   int                         `json:"scheduled"`
	Total       int                         `json:"total"`
	ByPriority  map[string]renderedPriority `json:"byPriority"`
	Nodes       uint64                      `json:"nodesVisited,omitempty"`
	Pruned      uint64                      `json:"branchesPruned,omitempty"`
}

func newRenderedResult(source string, input model.Input, result outcome) renderedResult {
	statistics := model.ComputeStatistics(result.schedule, input.Sessions)

	rendered := renderedResult{
		Run:       result.runId,
		Source:    source,
		Strategy:  string(result.strategy),
		ElapsedMs: result.elapsed.Milliseconds(),
		Score:     renderedScore(result.schedule.Score()),
		Schedule: lo.Map(result.schedule.Sorted(), func(entry model.ScheduleEntry, _ int) renderedEntry {
			return renderedEntry{
				Session:  entry.Session.Id,
				Title:    entry.Session.Title,
				Priority: entry.Session.Priority.String(),
				Start:    entry.TimeSlot.Start,
				End:      entry.TimeSlot.End,
				Location: entry.TimeSlot.Location.Id,
			}
		}),
		Unscheduled: unscheduled(result.schedule, input),
		Scheduled:   statistics.ScheduledSessions,
		Total:       statistics.TotalSessions,
		ByPriority:  make(map[string]renderedPriority),
		Nodes:       result.search.NodesVisited,
		Pruned:      result.search.BranchesPruned,
	}
	for priority, priorityStatistics := range statistics.ByPriority {
		rendered.ByPriority[priority.String()] = renderedPriority(priorityStatistics)
	}
	return rendered
}

func unscheduled(schedule *model.Schedule, input model.Input) []string {
	missing := lo.Filter(input.Sessions, func(session model.Session, _ int) bool {
		return !schedule.Contains(session.Id)
	})
	return lo.Map(missing, func(session model.Session, _ int) string { return session.Id })
}

func render(out io.Writer, format string, source string, input model.Input, result outcome) error {
	rendered := newRenderedResult(source, input, result)
	switch format {
	case jsonFormat:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rendered)
	case textFormat:
		return renderText(out, input, result, rendered)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderText(out io.Writer, input model.Input, result outcome, rendered renderedResult) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Source: %v\n", rendered.Source)
	fmt.Fprintf(&builder, "Strategy: %v (run %v, %v)\n", rendered.Strategy, rendered.Run, result.elapsed.Round(time.Microsecond))
	fmt.Fprintf(&builder, "Score: %v\n\n", rendered.Score)

	for _, entry := range rendered.Schedule {
		title := entry.Title
		if title == "" {
			title = entry.Session
		}
		fmt.Fprintf(&builder, "%v-%v  %-12v %-10v %v\n",
			entry.Start.Format("Mon 15:04"), entry.End.Format("15:04"), entry.Location, entry.Priority, title)
	}
	if len(rendered.Unscheduled) > 0 {
		fmt.Fprintf(&builder, "\nUnscheduled: %v\n", strings.Join(rendered.Unscheduled, ", "))
	}

	fmt.Fprintf(&builder, "\n%v\n", model.ComputeStatistics(result.schedule, input.Sessions))
	if rendered.Nodes > 0 {
		fmt.Fprintf(&builder, "Search: %d nodes visited, %d branches pruned\n", rendered.Nodes, rendered.Pruned)
	}

	_, err := io.WriteString(out, builder.String())
	return err
}
