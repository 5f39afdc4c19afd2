package common

import (
	"errors"
	"fmt"
)

var (
	ErrNotAccepted    = errors.New("assignment has not been accepted")
	ErrCompleted      = errors.New("assignment is already completed")
	ErrBadDecision    = errors.New("decision must be accepted or declined")
	ErrNoDeliverables = errors.New("at least one deliverable is required")
	ErrEmptyComment   = errors.New("comment cannot be empty")
	ErrBadAuthorType  = errors.New("author type must be brand or influencer")
	ErrNotFound       = errors.New("not found")
)

// InvalidTransitionError is returned when an assignment is asked to make a
// state change its current state does not allow (e.g. responding twice).
type InvalidTransitionError struct {
	From AcceptanceStatus
	To   AcceptanceStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move assignment from %q to %q", e.From, e.To)
}

// InsufficientDeliverablesError carries the shortfall so the caller can tell
// the user exactly how many posts are still owed.
type InsufficientDeliverablesError struct {
	Submitted int `json:"submitted"`
	Required  int `json:"required"`
}

func (e *InsufficientDeliverablesError) Error() string {
	return fmt.Sprintf("%d of %d required deliverables submitted", e.Submitted, e.Required)
}

// ValidationError points at the offending deliverable and field. Validation
// is all-or-nothing; the first bad field fails the whole set before anything
// is written.
type ValidationError struct {
	Index int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("deliverable %d: %s %s", e.Index, e.Field, e.Msg)
}
