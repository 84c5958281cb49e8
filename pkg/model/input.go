package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Priority int

const (
	Optional   Priority = 1
	MustAttend Priority = 2
)

// Priorities returns the known priority levels, highest first
func Priorities() []Priority {
	return []Priority{MustAttend, Optional}
}

func (priority Priority) Valid() bool {
	return priority == MustAttend || priority == Optional
}

func (priority Priority) String() string {
	switch priority {
	case MustAttend:
		return "must_attend"
	case Optional:
		return "optional"
	}
	return fmt.Sprintf("priority(%d)", int(priority))
}

func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), "-", "_")) {
	case "must_attend", "mustattend", "must":
		return MustAttend, nil
	case "optional":
		return Optional, nil
	}
	return 0, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, value)
}

// Locations are identified by Id alone, Name and Building are descriptive
type Location struct {
	Id       string
	Name     string
	Building string
}

type TimeSlot struct {
	Start    time.Time
	End      time.Time
	Location *Location // Shared with every other slot held at the same venue
}

type SlotKey struct {
	Start, End int64
	Location   string
}

func (slot TimeSlot) Key() SlotKey {
	key := SlotKey{Start: slot.Start.UnixNano(), End: slot.End.UnixNano()}
	if slot.Location != nil {
		key.Location = slot.Location.Id
	}
	return key
}

// Overlaps uses half-open intervals: a slot ending when another starts does not overlap it
func (slot TimeSlot) Overlaps(other TimeSlot) bool {
	return slot.Start.Before(other.End) && other.Start.Before(slot.End)
}

func (slot TimeSlot) String() string {
	location := "?"
	if slot.Location != nil {
		location = slot.Location.Id
	}
	return fmt.Sprintf("[%v, %v) @ %v", slot.Start.Format(time.RFC3339), slot.End.Format(time.RFC3339), location)
}

type Session struct {
	Id        string
	Title     string
	Priority  Priority
	TimeSlots []TimeSlot
}

type Input struct {
	Sessions    []Session
	TravelTimes *TravelTimes
}

// Validate reports every configuration problem of the input at once
func (input Input) Validate() error {
	problems := make([]string, 0)
	seen := make(map[string]bool)

	for i, session := range input.Sessions {
		name := session.Id
		if session.Id == "" {
			name = fmt.Sprintf("#%d", i)
			problems = append(problems, fmt.Sprintf("session %v has an empty id", name))
		} else if seen[session.Id] {
			problems = append(problems, fmt.Sprintf("session %q is duplicated", session.Id))
		}
		seen[session.Id] = true

		if !session.Priority.Valid() {
			problems = append(problems, fmt.Sprintf("session %q has unknown %v", name, session.Priority))
		}
		if len(session.TimeSlots) == 0 {
			problems = append(problems, fmt.Sprintf("session %q has no candidate time slots", name))
		}

		for j, slot := range session.TimeSlots {
			if slot.Location == nil {
				problems = append(problems, fmt.Sprintf("slot %d of session %q has no location", j, name))
			} else if slot.Location.Id == "" {
				problems = append(problems, fmt.Sprintf("slot %d of session %q has a location with an empty id", j, name))
			}
			if !slot.Start.Before(slot.End) {
				problems = append(problems, fmt.Sprintf("slot %d of session %q does not end after it starts (%v)", j, name, slot))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

//** Raw input, as read from scenario files

type RawLocation struct {
	Id       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Building string `json:"building,omitempty" yaml:"building,omitempty"`
}

type RawTravelTime struct {
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Minutes int    `json:"minutes" yaml:"minutes"`
}

type RawTimeSlot struct {
	Start    time.Time `json:"start" yaml:"start"`
	End      time.Time `json:"end" yaml:"end"`
	Location string    `json:"location" yaml:"location"`
}

type RawSession struct {
	Id        string        `json:"id" yaml:"id"`
	Title     string        `json:"title,omitempty" yaml:"title,omitempty"`
	Priority  string        `json:"priority" yaml:"priority"`
	TimeSlots []RawTimeSlot `json:"timeSlots" mapstructure:"timeSlots" yaml:"timeSlots"`
}

type RawModelInput struct {
	Locations          []RawLocation   `json:"locations" yaml:"locations"`
	TravelTimes        []RawTravelTime `json:"travelTimes" mapstructure:"travelTimes" yaml:"travelTimes"`
	FallbackTravelTime *int            `json:"fallbackTravelTime,omitempty" mapstructure:"fallbackTravelTime" yaml:"fallbackTravelTime,omitempty"`
	Sessions           []RawSession    `json:"sessions" yaml:"sessions"`
}

// ToRawInput is the inverse of ProcessRawInput, locations are listed in order of first use
func ToRawInput(input Input) RawModelInput {
	rawInput := RawModelInput{
		Locations:   make([]RawLocation, 0),
		TravelTimes: input.TravelTimes.entries(),
		Sessions:    make([]RawSession, 0, len(input.Sessions)),
	}
	if input.TravelTimes != nil && input.TravelTimes.fallback != nil {
		fallback := *input.TravelTimes.fallback
		rawInput.FallbackTravelTime = &fallback
	}

	seen := make(map[string]bool)
	for _, session := range input.Sessions {
		rawSession := RawSession{Id: session.Id, Title: session.Title, Priority: session.Priority.String(), TimeSlots: make([]RawTimeSlot, 0, len(session.TimeSlots))}
		for _, slot := range session.TimeSlots {
			if !seen[slot.Location.Id] {
				seen[slot.Location.Id] = true
				rawInput.Locations = append(rawInput.Locations, RawLocation{Id: slot.Location.Id, Name: slot.Location.Name, Building: slot.Location.Building})
			}
			rawSession.TimeSlots = append(rawSession.TimeSlots, RawTimeSlot{Start: slot.Start, End: slot.End, Location: slot.Location.Id})
		}
		rawInput.Sessions = append(rawInput.Sessions, rawSession)
	}

	// Travel entries may name locations no session uses
	for _, entry := range rawInput.TravelTimes {
		for _, id := range []string{entry.From, entry.To} {
			if !seen[id] {
				seen[id] = true
				rawInput.Locations = append(rawInput.Locations, RawLocation{Id: id})
			}
		}
	}
	return rawInput
}

// InputFromFile reads a JSON (or YAML, by extension) scenario file
func InputFromFile(file string) (Input, error) {
	rawInput, err := RawInputFromFile(file)
	if err != nil {
		return Input{}, err
	}
	return ProcessRawInput(rawInput)
}

func RawInputFromFile(file string) (RawModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return RawModelInput{}, err
	}

	var inputMap map[string]any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &inputMap)
	default:
		err = json.Unmarshal(bytes, &inputMap)
	}
	if err != nil {
		return RawModelInput{}, fmt.Errorf("%w: cannot parse %v: %v", ErrInvalidInput, file, err)
	}

	return DecodeRawInput(inputMap)
}

func DecodeRawInput(inputMap map[string]any) (RawModelInput, error) {
	var rawInput RawModelInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:     &rawInput,
	})
	if err != nil {
		return RawModelInput{}, err
	}
	if err := decoder.Decode(inputMap); err != nil {
		return RawModelInput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return rawInput, nil
}

// ProcessRawInput resolves location references, so that every slot held at a venue shares one *Location
func ProcessRawInput(rawInput RawModelInput) (Input, error) {
	problems := make([]string, 0)

	locations := make(map[string]*Location, len(rawInput.Locations))
	for _, rawLocation := range rawInput.Locations {
		if _, ok := locations[rawLocation.Id]; ok {
			problems = append(problems, fmt.Sprintf("location %q is duplicated", rawLocation.Id))
			continue
		}
		locations[rawLocation.Id] = &Location{Id: rawLocation.Id, Name: rawLocation.Name, Building: rawLocation.Building}
	}

	entries := make(map[[2]string]int, len(rawInput.TravelTimes))
	for _, rawTravelTime := range rawInput.TravelTimes {
		for _, id := range []string{rawTravelTime.From, rawTravelTime.To} {
			if _, ok := locations[id]; !ok {
				problems = append(problems, fmt.Sprintf("travel time references unknown location %q", id))
			}
		}
		entries[[2]string{rawTravelTime.From, rawTravelTime.To}] = rawTravelTime.Minutes
	}

	options := make([]TravelOption, 0, 1)
	if rawInput.FallbackTravelTime != nil {
		options = append(options, WithFallbackTravelTime(*rawInput.FallbackTravelTime))
	}
	travelTimes, err := NewTravelTimes(entries, options...)
	if err != nil {
		problems = append(problems, err.Error())
	}

	sessions := lo.Map(rawInput.Sessions, func(rawSession RawSession, _ int) Session {
		priority, err := ParsePriority(rawSession.Priority)
		if err != nil {
			problems = append(problems, fmt.Sprintf("session %q: %v", rawSession.Id, err))
		}

		slots := make([]TimeSlot, 0, len(rawSession.TimeSlots))
		for _, rawSlot := range rawSession.TimeSlots {
			location, ok := locations[rawSlot.Location]
			if !ok {
				problems = append(problems, fmt.Sprintf("session %q references unknown location %q", rawSession.Id, rawSlot.Location))
				continue
			}
			slots = append(slots, TimeSlot{Start: rawSlot.Start, End: rawSlot.End, Location: location})
		}

		return Session{Id: rawSession.Id, Title: rawSession.Title, Priority: priority, TimeSlots: slots}
	})

	if len(problems) > 0 {
		return Input{}, &ValidationError{Problems: problems}
	}

	input := Input{Sessions: sessions, TravelTimes: travelTimes}
	if err := input.Validate(); err != nil {
		return Input{}, err
	}
	return input, nil
}
