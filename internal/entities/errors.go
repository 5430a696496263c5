// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEntryNotFound is returned when an entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrReviewNotFound signals missing review.
	ErrReviewNotFound = errors.New("review not found")
	// ErrParticipantNotFound signals missing review participant.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrSolutionNotFound signals missing solution.
	ErrSolutionNotFound = errors.New("solution not found")
	// ErrStepNotFound signals missing solution step.
	ErrStepNotFound = errors.New("solution step not found")
	// ErrTagNotFound signals missing tag.
	ErrTagNotFound = errors.New("tag not found")
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTagExists signals tag name conflict.
	ErrTagExists = errors.New("tag exists")
	// ErrEntryTagged signals the entry already carries the tag.
	ErrEntryTagged = errors.New("entry already tagged")
	// ErrEntryNotTagged signals untagging an absent entry-tag link.
	ErrEntryNotTagged = errors.New("entry not tagged")
	// ErrReviewDecided signals a decision on an already-decided review.
	ErrReviewDecided = errors.New("review already decided")
	// ErrNotParticipant signals a decision from a user outside the review.
	ErrNotParticipant = errors.New("user is not a review participant")
	// ErrWorkflowViolation signals an illegal workflow transition or a
	// state-gated action attempted from the wrong state.
	ErrWorkflowViolation = errors.New("workflow violation")
)

// WorkflowError describes a rejected entry state transition with enough
// context to render a precise message: current state, attempted target and
// the allowed set.
type WorkflowError struct {
	Current WorkflowState
	Target  WorkflowState
	Allowed []WorkflowState
}

func (e *WorkflowError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	if len(allowed) == 0 {
		return fmt.Sprintf("invalid transition from %s to %s: %s is terminal", e.Current, e.Target, e.Current)
	}
	return fmt.Sprintf("invalid transition from %s to %s, allowed: %s", e.Current, e.Target, strings.Join(allowed, ", "))
}

// Unwrap lets errors.Is match ErrWorkflowViolation.
func (e *WorkflowError) Unwrap() error { return ErrWorkflowViolation }
