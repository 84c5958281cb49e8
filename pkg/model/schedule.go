package model

import (
	"cmp"
	"fmt"
	"slices"
)

// ScheduleEntry pairs a session with the one candidate slot chosen for it
type ScheduleEntry struct {
	Session  Session
	TimeSlot TimeSlot
}

// Score orders schedules lexicographically: any number of optional sessions is worth less than one must-attend session
type Score struct {
	MustAttend int
	Optional   int
}

func (score Score) Compare(other Score) int {
	if comparison := cmp.Compare(score.MustAttend, other.MustAttend); comparison != 0 {
		return comparison
	}
	return cmp.Compare(score.Optional, other.Optional)
}

func (score Score) Plus(other Score) Score {
	return Score{MustAttend: score.MustAttend + other.MustAttend, Optional: score.Optional + other.Optional}
}

// Add counts delta sessions of the given priority
func (score Score) Add(priority Priority, delta int) Score {
	switch priority {
	case MustAttend:
		score.MustAttend += delta
	case Optional:
		score.Optional += delta
	}
	return score
}

func (score Score) String() string {
	return fmt.Sprintf("(%d must attend, %d optional)", score.MustAttend, score.Optional)
}

// Schedule is a conflict-free set of entries, at most one per session. Entries keep insertion order
type Schedule struct {
	entries []ScheduleEntry
}

func NewSchedule() *Schedule {
	return &Schedule{entries: make([]ScheduleEntry, 0)}
}

// HasConflict checks the slot against every entry already placed
func (schedule *Schedule) HasConflict(slot TimeSlot, travelTimes *TravelTimes) (bool, error) {
	for _, entry := range schedule.entries {
		conflict, err := Conflicts(entry.TimeSlot, slot, travelTimes)
		if err != nil {
			return false, err
		} else if conflict {
			return true, nil
		}
	}
	return false, nil
}

// Add places the session in the slot, refusing sessions already scheduled and slots conflicting with the schedule
func (schedule *Schedule) Add(session Session, slot TimeSlot, travelTimes *TravelTimes) error {
	if schedule.Contains(session.Id) {
		return fmt.Errorf("%w: session %q is already scheduled", ErrConflict, session.Id)
	}

	conflict, err := schedule.HasConflict(slot, travelTimes)
	if err != nil {
		return err
	} else if conflict {
		return fmt.Errorf("%w: session %q at %v", ErrConflict, session.Id, slot)
	}

	schedule.entries = append(schedule.entries, ScheduleEntry{Session: session, TimeSlot: slot}.clone())
	return nil
}

// clone detaches the entry's candidate slots from the caller's slice, locations stay shared
func (entry ScheduleEntry) clone() ScheduleEntry {
	entry.Session.TimeSlots = slices.Clone(entry.Session.TimeSlots)
	return entry
}

// Remove drops the last entry, undoing the latest Add
func (schedule *Schedule) Remove() {
	if len(schedule.entries) > 0 {
		schedule.entries = schedule.entries[:len(schedule.entries)-1]
	}
}

func (schedule *Schedule) Contains(sessionId string) bool {
	return slices.ContainsFunc(schedule.entries, func(entry ScheduleEntry) bool {
		return entry.Session.Id == sessionId
	})
}

func (schedule *Schedule) Len() int {
	return len(schedule.entries)
}

func (schedule *Schedule) Entries() []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, len(schedule.entries))
	for _, entry := range schedule.entries {
		entries = append(entries, entry.clone())
	}
	return entries
}

func (schedule *Schedule) Sessions() []Session {
	sessions := make([]Session, 0, len(schedule.entries))
	for _, entry := range schedule.entries {
		sessions = append(sessions, entry.clone().Session)
	}
	return sessions
}

func (schedule *Schedule) CountByPriority() map[Priority]int {
	counts := make(map[Priority]int)
	for _, priority := range Priorities() {
		counts[priority] = 0
	}
	for _, entry := range schedule.entries {
		counts[entry.Session.Priority]++
	}
	return counts
}

func (schedule *Schedule) Score() Score {
	score := Score{}
	for _, entry := range schedule.entries {
		score = score.Add(entry.Session.Priority, 1)
	}
	return score
}

// Sorted returns the entries by start time, then by session id
func (schedule *Schedule) Sorted() []ScheduleEntry {
	entries := schedule.Entries()
	slices.SortStableFunc(entries, func(a, b ScheduleEntry) int {
		if comparison := a.TimeSlot.Start.Compare(b.TimeSlot.Start); comparison != 0 {
			return comparison
		}
		return cmp.Compare(a.Session.Id, b.Session.Id)
	})
	return entries
}

// Verify checks a schedule against the input it was built from: every entry must reference a known session
// through one of its own candidate slots, no session may appear twice and no two entries may conflict
func Verify(schedule *Schedule, input Input) error {
	sessions := make(map[string]Session, len(input.Sessions))
	for _, session := range input.Sessions {
		sessions[session.Id] = session
	}

	entries := schedule.Entries()
	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		session, ok := sessions[entry.Session.Id]
		if !ok {
			return fmt.Errorf("%w: session %q is not part of the input", ErrInvalidInput, entry.Session.Id)
		} else if seen[session.Id] {
			return fmt.Errorf("%w: session %q is scheduled more than once", ErrConflict, session.Id)
		}
		seen[session.Id] = true

		if !slices.ContainsFunc(session.TimeSlots, func(slot TimeSlot) bool { return slot.Key() == entry.TimeSlot.Key() }) {
			return fmt.Errorf("%w: %v is not a candidate slot of session %q", ErrInvalidInput, entry.TimeSlot, session.Id)
		}

		for _, other := range entries[:i] {
			conflict, err := ConflictsEntries(other, entry, input.TravelTimes)
			if err != nil {
				return err
			} else if conflict {
				return fmt.Errorf("%w: sessions %q and %q", ErrConflict, other.Session.Id, entry.Session.Id)
			}
		}
	}
	return nil
}
