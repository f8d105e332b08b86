package service

import (
	"errors"
	"fmt"
	"time"
)

// Business failures are returned as values and recovered at the handler
// boundary; only unexpected storage errors propagate as-is. Every rejection
// carries a reason string that is surfaced directly to the end user.

var (
	// ErrBorrowTooEarly rejects verification before the approved window opens.
	ErrBorrowTooEarly = errors.New("borrow window has not started yet")
	// ErrBorrowWindowPassed rejects verification after the approved window closed.
	ErrBorrowWindowPassed = errors.New("borrow window has already passed")
)

// ValidationError flags malformed input rejected before any storage access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CapacityExceededError reports a folder/locker/room that would overflow,
// with the usage numbers that make the rejection explainable.
type CapacityExceededError struct {
	Resource  string // "folder", "locker", "room"
	Current   int
	Capacity  int
	Requested int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("not enough space in %s: current usage %d of %d, requested %d",
		e.Resource, e.Current, e.Capacity, e.Requested)
}

// ScheduleConflictError reports a borrow window overlapping an approved one.
type ScheduleConflictError struct {
	Start time.Time
	End   time.Time
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("request time is conflicted with other requests (window %s to %s)",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// StateConflictError means a conditional update affected zero rows: the row
// was not found, or its status no longer matched the expected precondition,
// including the case where a concurrent operation won the race. It is never
// retried automatically.
type StateConflictError struct {
	Entity string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s not existed or already transitioned", e.Entity)
}

// ContainmentViolationError flags a category/folder/department mismatch.
type ContainmentViolationError struct {
	Entity string
}

func (e *ContainmentViolationError) Error() string {
	return fmt.Sprintf("%s is not located in this department", e.Entity)
}

// DuplicateNameError maps unique-constraint violations to their user-facing
// message ("<entity> name is already existed" in the upstream clients).
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s name %q already exists", e.Entity, e.Name)
}

// IsBusinessError reports whether err belongs to the taxonomy above, i.e. a
// rule rejection rather than an infrastructure failure.
func IsBusinessError(err error) bool {
	var (
		ve *ValidationError
		ce *CapacityExceededError
		se *ScheduleConflictError
		st *StateConflictError
		cv *ContainmentViolationError
		dn *DuplicateNameError
	)
	return errors.As(err, &ve) ||
		errors.As(err, &ce) ||
		errors.As(err, &se) ||
		errors.As(err, &st) ||
		errors.As(err, &cv) ||
		errors.As(err, &dn) ||
		errors.Is(err, ErrBorrowTooEarly) ||
		errors.Is(err, ErrBorrowWindowPassed)
}
