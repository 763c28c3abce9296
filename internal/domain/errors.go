package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrNotFound     = errors.New("not found")
)

// DependencyError reports a failed or timed out call to the library backend.
// Status is the HTTP status when the backend answered, 0 otherwise.
type DependencyError struct {
	Op     string
	Status int
	Err    error
}

func (e *DependencyError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: backend responded %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Timeout reports whether the call ran out of time rather than being refused.
func (e *DependencyError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Rejected reports whether the backend answered with a non-success status.
func (e *DependencyError) Rejected() bool {
	return e.Status != 0
}

const (
	StepMarkReturned = "mark-returned"
	StepCreateFine   = "create-fine"
)

// PartialFailureError is returned when a return may have been recorded but the
// late fine that belongs to it was not. With Step StepCreateFine the return is
// known to be applied; with StepMarkReturned its outcome is unknown. Queued
// tells whether the fine sits in the outbox for a later retry.
type PartialFailureError struct {
	LendingID int32
	Step      string
	Queued    bool
	Err       error
}

func (e *PartialFailureError) Error() string {
	state := "not queued"
	if e.Queued {
		state = "queued for retry"
	}
	if e.Step == StepMarkReturned {
		return fmt.Sprintf("lending %d return unconfirmed, late fine %s: %v", e.LendingID, state, e.Err)
	}
	return fmt.Sprintf("lending %d returned but step %s failed (%s): %v", e.LendingID, e.Step, state, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }
