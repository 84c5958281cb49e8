package scenario

import (
	"github.com/limaJavier/sessionplanner/pkg/model"
)

type TravelMode int

const (
	Walk TravelMode = iota // Between rooms of the same building
	Bus                    // Between buildings
)

func (mode TravelMode) Minutes() int {
	if mode == Walk {
		return 5
	}
	return 15
}

func (mode TravelMode) String() string {
	if mode == Walk {
		return "walk"
	}
	return "bus"
}

// ModeBetween tells how an attendee gets from one location to the other
func ModeBetween(from, to *model.Location) TravelMode {
	if from.Building == to.Building {
		return Walk
	}
	return Bus
}

// Locations returns a fresh copy of the conference venues, ten rooms across three buildings
func Locations() []*model.Location {
	return []*model.Location{
		{Id: "venetian-ballroom-a", Name: "Ballroom A", Building: "The Venetian"},
		{Id: "venetian-ballroom-b", Name: "Ballroom B", Building: "The Venetian"},
		{Id: "venetian-ballroom-c", Name: "Ballroom C", Building: "The Venetian"},
		{Id: "venetian-room-301", Name: "Room 301", Building: "The Venetian"},
		{Id: "venetian-room-302", Name: "Room 302", Building: "The Venetian"},
		{Id: "mandalay-hall-a", Name: "Hall A", Building: "Mandalay Bay"},
		{Id: "mandalay-hall-b", Name: "Hall B", Building: "Mandalay Bay"},
		{Id: "mandalay-room-201", Name: "Room 201", Building: "Mandalay Bay"},
		{Id: "aria-ballroom", Name: "Main Ballroom", Building: "ARIA"},
		{Id: "aria-room-101", Name: "Room 101", Building: "ARIA"},
	}
}

// TravelTimes lists every pair of the given locations, walking within a building and taking the bus across
func TravelTimes(locations []*model.Location) (*model.TravelTimes, error) {
	return model.BuildingTravelTimes(locations, Walk.Minutes(), Bus.Minutes())
}
