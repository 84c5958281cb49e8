package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingTravelTime = errors.New("missing travel time")
	ErrConflict          = errors.New("schedule conflict")
	ErrSolverUnavailable = errors.New("solver unavailable")
	ErrSolverFailed      = errors.New("solver failed")
)

// ValidationError gathers every configuration problem found in an input
type ValidationError struct {
	Problems []string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidInput, strings.Join(err.Problems, "; "))
}

func (err *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// LookupError reports a travel-time query between two distinct locations that has no table entry in either direction
type LookupError struct {
	From, To string
}

func (err *LookupError) Error() string {
	return fmt.Sprintf("%v between %q and %q", ErrMissingTravelTime, err.From, err.To)
}

func (err *LookupError) Unwrap() error {
	return ErrMissingTravelTime
}
