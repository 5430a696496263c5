// Package workflow is the sole authority on entry-state legality. It is a
// pure decision table: no storage, no side effects, deterministic for a
// given (current, target) pair.
package workflow

import (
	"fmt"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
)

// transitions maps each state to the set it may move to. Retired and merged
// are terminal.
var transitions = map[entities.WorkflowState][]entities.WorkflowState{
	entities.StateDraft:     {entities.StateInReview, entities.StateRetired},
	entities.StateInReview:  {entities.StateDraft, entities.StatePublished, entities.StateRetired},
	entities.StatePublished: {entities.StateRetired, entities.StateMerged},
	entities.StateRetired:   {},
	entities.StateMerged:    {},
}

// Transition is an approved state change. StampApproval mandates setting
// approved_by/approved_at with the acting user and current time, which only
// happens on entering published.
type Transition struct {
	To            entities.WorkflowState
	StampApproval bool
}

// Allowed returns the transition targets legal from the given state. Unknown
// states have no legal targets.
func Allowed(current entities.WorkflowState) []entities.WorkflowState {
	return transitions[current]
}

// CanTransition reports whether current -> target is in the table.
func CanTransition(current, target entities.WorkflowState) bool {
	for _, s := range transitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// RequestTransition validates current -> target and returns the resulting
// transition, or a WorkflowError naming the current state, the target and
// the allowed set.
func RequestTransition(current, target entities.WorkflowState) (Transition, error) {
	if !CanTransition(current, target) {
		return Transition{}, &entities.WorkflowError{
			Current: current,
			Target:  target,
			Allowed: Allowed(current),
		}
	}
	return Transition{
		To:            target,
		StampApproval: target == entities.StatePublished,
	}, nil
}

// DecisionOutcome maps a submitted review decision to the entry transition
// it produces: approved publishes the entry with an approval stamp, while
// rejected and changes_requested both return it to draft.
func DecisionOutcome(status entities.ReviewStatus) (Transition, error) {
	switch status {
	case entities.ReviewApproved:
		return RequestTransition(entities.StateInReview, entities.StatePublished)
	case entities.ReviewRejected, entities.ReviewChangesRequested:
		return RequestTransition(entities.StateInReview, entities.StateDraft)
	default:
		return Transition{}, fmt.Errorf("%w: %q is not a decision", entities.ErrInvalidArgument, status)
	}
}
