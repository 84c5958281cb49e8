package model

import (
	"fmt"
	"slices"
	"strings"
)

// TravelTimes maps unordered pairs of location ids to the minutes needed to move between them.
// A missing pair fails the lookup unless a fallback was configured explicitly
type TravelTimes struct {
	minutes  map[[2]string]int
	fallback *int
}

type TravelOption func(*TravelTimes)

// WithFallbackTravelTime makes lookups of unknown pairs return the given minutes instead of failing
func WithFallbackTravelTime(minutes int) TravelOption {
	return func(travelTimes *TravelTimes) {
		travelTimes.fallback = &minutes
	}
}

// NewTravelTimes accepts either or both directions of a pair, both directions must agree
func NewTravelTimes(entries map[[2]string]int, options ...TravelOption) (*TravelTimes, error) {
	travelTimes := &TravelTimes{minutes: make(map[[2]string]int, len(entries))}
	for _, option := range options {
		option(travelTimes)
	}

	if travelTimes.fallback != nil && *travelTimes.fallback < 0 {
		return nil, fmt.Errorf("%w: fallback travel time must be non-negative: %d", ErrInvalidInput, *travelTimes.fallback)
	}

	for pair, minutes := range entries {
		if minutes < 0 {
			return nil, fmt.Errorf("%w: travel time between %q and %q is negative: %d", ErrInvalidInput, pair[0], pair[1], minutes)
		} else if pair[0] == pair[1] {
			continue // Same-location travel is always zero
		}

		key := travelKey(pair[0], pair[1])
		if existing, ok := travelTimes.minutes[key]; ok && existing != minutes {
			return nil, fmt.Errorf("%w: travel time between %q and %q is ambiguous: %d and %d", ErrInvalidInput, pair[0], pair[1], existing, minutes)
		}
		travelTimes.minutes[key] = minutes
	}

	return travelTimes, nil
}

// BuildingTravelTimes derives a complete table from the buildings of the given locations
func BuildingTravelTimes(locations []*Location, sameBuilding, crossBuilding int) (*TravelTimes, error) {
	entries := make(map[[2]string]int)
	for i := range len(locations) {
		for j := i + 1; j < len(locations); j++ {
			minutes := crossBuilding
			if locations[i].Building == locations[j].Building {
				minutes = sameBuilding
			}
			entries[[2]string{locations[i].Id, locations[j].Id}] = minutes
		}
	}
	return NewTravelTimes(entries)
}

// Minutes returns the travel buffer between two locations, 0 when they are the same location
func (travelTimes *TravelTimes) Minutes(from, to *Location) (int, error) {
	if from.Id == to.Id {
		return 0, nil
	}

	if travelTimes != nil {
		if minutes, ok := travelTimes.minutes[travelKey(from.Id, to.Id)]; ok {
			return minutes, nil
		} else if travelTimes.fallback != nil {
			return *travelTimes.fallback, nil
		}
	}

	return 0, &LookupError{From: from.Id, To: to.Id}
}

func (travelTimes *TravelTimes) Len() int {
	if travelTimes == nil {
		return 0
	}
	return len(travelTimes.minutes)
}

// entries lists the table in sorted pair order
func (travelTimes *TravelTimes) entries() []RawTravelTime {
	entries := make([]RawTravelTime, 0, travelTimes.Len())
	if travelTimes == nil {
		return entries
	}
	for key, minutes := range travelTimes.minutes {
		entries = append(entries, RawTravelTime{From: key[0], To: key[1], Minutes: minutes})
	}
	slices.SortFunc(entries, func(a, b RawTravelTime) int {
		if a.From != b.From {
			return strings.Compare(a.From, b.From)
		}
		return strings.Compare(a.To, b.To)
	})
	return entries
}

func travelKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
