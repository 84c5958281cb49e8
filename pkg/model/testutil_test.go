package model

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/samber/lo"
)

var (
	hallA   = &Location{Id: "A", Name: "Hall A", Building: "north"}
	hallB   = &Location{Id: "B", Name: "Hall B", Building: "north"}
	annexC  = &Location{Id: "C", Name: "Annex C", Building: "south"}
	stageD  = &Location{Id: "D", Name: "Stage D", Building: "south"}
	venues  = []*Location{hallA, hallB, annexC, stageD}
	baseDay = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
)

func at(hour, minute int) time.Time {
	return baseDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func slot(fromHour, fromMinute, toHour, toMinute int, location *Location) TimeSlot {
	return TimeSlot{Start: at(fromHour, fromMinute), End: at(toHour, toMinute), Location: location}
}

func session(id string, priority Priority, slots ...TimeSlot) Session {
	return Session{Id: id, Title: "Talk " + id, Priority: priority, TimeSlots: slots}
}

func travelTimes(entries map[[2]string]int) *TravelTimes {
	travelTimes, err := NewTravelTimes(entries)
	if err != nil {
		panic(err)
	}
	return travelTimes
}

func buildingTravelTimes() *TravelTimes {
	travelTimes, err := BuildingTravelTimes(venues, 5, 15)
	if err != nil {
		panic(err)
	}
	return travelTimes
}

// generateInput builds a random conference day on a 15-minute grid with a complete travel table
func generateInput(random *rand.Rand, sessions int) Input {
	input := Input{
		Sessions:    make([]Session, 0, sessions),
		TravelTimes: buildingTravelTimes(),
	}

	for i := range sessions {
		priority := Optional
		if random.IntN(3) == 0 {
			priority = MustAttend
		}

		slots := make([]TimeSlot, 0)
		for range random.IntN(3) + 1 {
			start := at(9, 0).Add(time.Duration(random.IntN(28)) * 15 * time.Minute)
			slots = append(slots, TimeSlot{
				Start:    start,
				End:      start.Add(time.Duration(random.IntN(4)+2) * 15 * time.Minute),
				Location: venues[random.IntN(len(venues))],
			})
		}

		input.Sessions = append(input.Sessions, session(fmt.Sprintf("s%d", i), priority, slots...))
	}
	return input
}

// snapshot deep-copies the sessions so that a later comparison detects any mutation
func snapshot(sessions []Session) []Session {
	return lo.Map(sessions, func(session Session, _ int) Session {
		session.TimeSlots = append([]TimeSlot{}, session.TimeSlots...)
		return session
	})
}
