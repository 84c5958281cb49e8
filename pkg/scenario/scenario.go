package scenario

import (
	"fmt"
	"slices"
	"time"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/samber/lo"
)

var registry = map[string]func() model.Input{
	"simple":           Simple,
	"conference":       Conference,
	"complex":          Complex,
	"heavy-conflict":   HeavyConflict,
	"travel-intensive": TravelIntensive,
	"sparse":           Sparse,
	"large-scale":      LargeScale,
	"multiple-optimal": MultipleOptimal,
}

func Names() []string {
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}

func Get(name string) (model.Input, error) {
	scenario, ok := registry[name]
	if !ok {
		return model.Input{}, fmt.Errorf("unknown scenario %q (available: %v)", name, Names())
	}
	return scenario(), nil
}

// builder lays out sessions of one conference day over the venues
type builder struct {
	day       time.Time
	locations []*model.Location
	sessions  []model.Session
}

func newBuilder(month time.Month, day int) *builder {
	return &builder{
		day:       time.Date(2025, month, day, 0, 0, 0, 0, time.UTC),
		locations: Locations(),
		sessions:  make([]model.Session, 0),
	}
}

func (builder *builder) slot(fromHour, fromMinute, toHour, toMinute, location int) model.TimeSlot {
	return model.TimeSlot{
		Start:    builder.day.Add(time.Duration(fromHour)*time.Hour + time.Duration(fromMinute)*time.Minute),
		End:      builder.day.Add(time.Duration(toHour)*time.Hour + time.Duration(toMinute)*time.Minute),
		Location: builder.locations[location],
	}
}

// hours is a shorthand for a slot on whole hours
func (builder *builder) hours(from, to, location int) model.TimeSlot {
	return builder.slot(from, 0, to, 0, location)
}

func (builder *builder) add(id, title string, priority model.Priority, slots ...model.TimeSlot) *builder {
	builder.sessions = append(builder.sessions, model.Session{Id: id, Title: title, Priority: priority, TimeSlots: slots})
	return builder
}

func (builder *builder) input() model.Input {
	// Venues are fixed, building their table cannot fail
	travelTimes := lo.Must(TravelTimes(builder.locations))
	return model.Input{Sessions: builder.sessions, TravelTimes: travelTimes}
}

// Simple has two must-attend sessions competing for 9:00 and an optional break reachable on foot
func Simple() model.Input {
	b := newBuilder(time.December, 1)
	return b.
		add("keynote-1", "Opening Keynote", model.MustAttend, b.hours(9, 10, 0), b.hours(11, 12, 0)).
		add("ai-workshop", "AI/ML Workshop", model.MustAttend, b.hours(9, 10, 1)).
		add("networking", "Networking Break", model.Optional, b.slot(12, 10, 12, 40, 2)).
		input()
}

// Conference is a realistic day of keynotes, repeated breakouts and social events
func Conference() model.Input {
	b := newBuilder(time.December, 2)
	return b.
		add("keynote-morning", "CEO Keynote: The Future of Cloud", model.MustAttend, b.slot(9, 0, 10, 30, 0)).
		add("serverless-best-practices", "Serverless Best Practices", model.MustAttend, b.hours(11, 12, 3), b.hours(14, 15, 4), b.hours(16, 17, 3)).
		add("security-deep-dive", "Security Deep Dive", model.MustAttend, b.hours(11, 12, 5), b.hours(13, 14, 6)).
		add("containers-intro", "Introduction to Containers", model.Optional, b.hours(13, 14, 4), b.hours(15, 16, 7)).
		add("machine-learning-101", "Machine Learning 101", model.Optional, b.hours(14, 15, 8), b.hours(16, 17, 9)).
		add("networking-lunch", "Networking Lunch", model.Optional, b.hours(12, 13, 2)).
		add("keynote-afternoon", "Product Announcements", model.MustAttend, b.slot(15, 0, 16, 30, 0)).
		add("happy-hour", "Sponsor Happy Hour", model.Optional, b.hours(17, 18, 8)).
		input()
}

// Complex packs thirteen sessions into one day, each session held in its own venue
func Complex() model.Input {
	b := newBuilder(time.December, 3)
	configs := []struct {
		id       string
		priority model.Priority
		hours    [][2]int
	}{
		{"must-1", model.MustAttend, [][2]int{{9, 10}, {14, 15}}},
		{"must-2", model.MustAttend, [][2]int{{9, 10}, {11, 12}}},
		{"must-3", model.MustAttend, [][2]int{{10, 11}}},
		{"must-4", model.MustAttend, [][2]int{{11, 12}, {15, 16}}},
		{"must-5", model.MustAttend, [][2]int{{13, 14}}},
		{"opt-1", model.Optional, [][2]int{{9, 10}, {12, 13}}},
		{"opt-2", model.Optional, [][2]int{{10, 11}, {14, 15}}},
		{"opt-3", model.Optional, [][2]int{{11, 12}}},
		{"opt-4", model.Optional, [][2]int{{12, 13}, {16, 17}}},
		{"opt-5", model.Optional, [][2]int{{13, 14}, {15, 16}}},
		{"opt-6", model.Optional, [][2]int{{14, 15}}},
		{"opt-7", model.Optional, [][2]int{{15, 16}}},
		{"opt-8", model.Optional, [][2]int{{16, 17}}},
	}

	for i, config := range configs {
		slots := lo.Map(config.hours, func(hours [2]int, _ int) model.TimeSlot {
			return b.hours(hours[0], hours[1], i%len(b.locations))
		})
		kind := "Critical"
		if config.priority == model.Optional {
			kind = "Optional"
		}
		b.add(config.id, fmt.Sprintf("%v Session %v", kind, config.id[len(config.id)-1:]), config.priority, slots...)
	}
	return b.input()
}

// HeavyConflict has six must-attend sessions with three overlapping options each, where early greedy choices hurt
func HeavyConflict() model.Input {
	b := newBuilder(time.December, 4)
	return b.
		add("must-1", "Leadership Summit", model.MustAttend, b.hours(9, 10, 0), b.hours(10, 11, 1), b.hours(14, 15, 2)).
		add("must-2", "Technical Architecture Review", model.MustAttend, b.hours(9, 10, 3), b.hours(11, 12, 4), b.hours(14, 15, 5)).
		add("must-3", "Strategy Session", model.MustAttend, b.hours(10, 11, 6), b.hours(11, 12, 7), b.hours(15, 16, 8)).
		add("must-4", "Product Roadmap", model.MustAttend, b.hours(9, 10, 8), b.hours(12, 13, 9), b.hours(15, 16, 0)).
		add("must-5", "Security Briefing", model.MustAttend, b.hours(10, 11, 3), b.hours(12, 13, 4), b.hours(16, 17, 5)).
		add("must-6", "Customer Feedback Review", model.MustAttend, b.hours(11, 12, 1), b.hours(13, 14, 2), b.hours(16, 17, 3)).
		add("opt-1", "Team Building Activity", model.Optional, b.hours(13, 14, 6), b.hours(17, 18, 7)).
		add("opt-2", "Innovation Showcase", model.Optional, b.hours(13, 14, 8)).
		input()
}

// TravelIntensive spreads back-to-back sessions over the three buildings, so that the bus rules out many options
func TravelIntensive() model.Input {
	b := newBuilder(time.December, 5)
	return b.
		add("must-1", "Morning Keynote", model.MustAttend, b.hours(9, 10, 0)).
		add("must-2", "Technical Workshop", model.MustAttend, b.hours(10, 11, 3), b.hours(10, 11, 5), b.slot(10, 30, 11, 30, 8)).
		add("must-3", "Product Demo", model.MustAttend, b.hours(11, 12, 4), b.slot(11, 30, 12, 30, 6)).
		add("must-4", "Strategy Meeting", model.MustAttend, b.hours(13, 14, 7), b.hours(13, 14, 9)).
		add("must-5", "Customer Panel", model.MustAttend, b.hours(14, 15, 5), b.slot(14, 20, 15, 20, 2)).
		add("opt-1", "Networking Break", model.Optional, b.slot(12, 0, 12, 30, 1), b.slot(12, 10, 12, 40, 6)).
		add("opt-2", "Tech Talk", model.Optional, b.slot(15, 30, 16, 30, 8)).
		input()
}

// Sparse gives most sessions a single option, so the order of decisions matters
func Sparse() model.Input {
	b := newBuilder(time.December, 6)
	return b.
		add("must-1", "Board Meeting", model.MustAttend, b.slot(9, 0, 10, 30, 0)).
		add("must-2", "Legal Review", model.MustAttend, b.slot(9, 30, 10, 30, 5), b.hours(11, 12, 5)).
		add("must-3", "Financial Planning", model.MustAttend, b.slot(12, 30, 13, 30, 1)).
		add("must-4", "Executive Briefing", model.MustAttend, b.slot(11, 30, 12, 30, 6), b.hours(14, 15, 2)).
		add("must-5", "Partner Meeting", model.MustAttend, b.slot(15, 30, 16, 30, 7)).
		add("must-6", "All-Hands", model.MustAttend, b.slot(14, 30, 15, 30, 8), b.slot(16, 45, 17, 45, 3)).
		add("opt-1", "Lunch & Learn", model.Optional, b.slot(13, 45, 14, 15, 4)).
		add("opt-2", "Team Sync", model.Optional, b.slot(10, 45, 11, 15, 9)).
		input()
}

// LargeScale has ten must-attend and twenty optional sessions, too many for plain backtracking to be quick
func LargeScale() model.Input {
	b := newBuilder(time.December, 7)
	type config struct {
		id, title string
		slots     [][3]int // Start hour, end hour, end minute
	}

	mustAttend := []config{
		{"must-1", "Critical Keynote", [][3]int{{9, 10, 0}}},
		{"must-2", "Strategy Session A", [][3]int{{9, 10, 0}, {11, 12, 0}, {14, 15, 0}}},
		{"must-3", "Product Launch", [][3]int{{10, 11, 0}, {13, 14, 0}}},
		{"must-4", "Executive Alignment", [][3]int{{10, 11, 0}}},
		{"must-5", "Technical Deep Dive", [][3]int{{11, 12, 0}, {15, 16, 0}, {16, 17, 0}}},
		{"must-6", "Customer Summit", [][3]int{{12, 13, 0}, {14, 15, 0}}},
		{"must-7", "Security Review", [][3]int{{13, 14, 0}}},
		{"must-8", "Q4 Planning", [][3]int{{14, 15, 0}, {16, 17, 0}}},
		{"must-9", "Innovation Workshop", [][3]int{{15, 16, 0}, {17, 18, 0}}},
		{"must-10", "Closing Remarks", [][3]int{{17, 18, 0}}},
	}
	optional := []config{
		{"opt-1", "Workshop: AI Fundamentals", [][3]int{{9, 10, 0}, {14, 15, 0}}},
		{"opt-2", "Networking Coffee", [][3]int{{10, 10, 30}}},
		{"opt-3", "Tech Talk: Cloud Native", [][3]int{{10, 11, 0}, {15, 16, 0}}},
		{"opt-4", "Panel: Future of Work", [][3]int{{11, 12, 0}}},
		{"opt-5", "Lunch Session", [][3]int{{12, 13, 0}}},
		{"opt-6", "Demo: New Features", [][3]int{{12, 13, 0}, {16, 17, 0}}},
		{"opt-7", "Workshop: DevOps", [][3]int{{13, 14, 0}, {17, 18, 0}}},
		{"opt-8", "Roundtable Discussion", [][3]int{{13, 14, 0}}},
		{"opt-9", "Certification Prep", [][3]int{{14, 15, 0}}},
		{"opt-10", "Office Hours", [][3]int{{14, 15, 0}, {16, 17, 0}}},
		{"opt-11", "Sponsor Showcase A", [][3]int{{15, 16, 0}}},
		{"opt-12", "Sponsor Showcase B", [][3]int{{15, 16, 0}}},
		{"opt-13", "Workshop: Containers", [][3]int{{16, 17, 0}}},
		{"opt-14", "Career Development", [][3]int{{16, 17, 0}, {18, 19, 0}}},
		{"opt-15", "Networking Reception", [][3]int{{17, 18, 0}}},
		{"opt-16", "Game Night", [][3]int{{18, 19, 0}}},
		{"opt-17", "Early Bird Session", [][3]int{{8, 9, 0}}},
		{"opt-18", "Meditation Break", [][3]int{{12, 12, 30}}},
		{"opt-19", "Book Club", [][3]int{{13, 13, 30}}},
		{"opt-20", "Late Night Coding", [][3]int{{19, 20, 0}}},
	}

	for i, entry := range mustAttend {
		location := (i * 2) % len(b.locations)
		b.add(entry.id, entry.title, model.MustAttend, lo.Map(entry.slots, func(slot [3]int, _ int) model.TimeSlot {
			return b.slot(slot[0], 0, slot[1], slot[2], location)
		})...)
	}
	for i, entry := range optional {
		location := (i*3 + 5) % len(b.locations)
		b.add(entry.id, entry.title, model.Optional, lo.Map(entry.slots, func(slot [3]int, _ int) model.TimeSlot {
			return b.slot(slot[0], 0, slot[1], slot[2], location)
		})...)
	}
	return b.input()
}

// MultipleOptimal admits several schedules with the same score
func MultipleOptimal() model.Input {
	b := newBuilder(time.December, 8)
	return b.
		add("must-a", "Session A", model.MustAttend, b.hours(9, 10, 0), b.hours(14, 15, 1)).
		add("must-b", "Session B", model.MustAttend, b.hours(10, 11, 2), b.hours(15, 16, 3)).
		add("must-c", "Session C", model.MustAttend, b.hours(11, 12, 4), b.hours(16, 17, 5)).
		add("opt-1", "Optional Workshop", model.Optional, b.hours(12, 13, 6), b.hours(13, 14, 7)).
		input()
}
