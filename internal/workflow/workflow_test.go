package workflow

import (
	"errors"
	"testing"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"

	"github.com/stretchr/testify/require"
)

var allStates = []entities.WorkflowState{
	entities.StateDraft,
	entities.StateInReview,
	entities.StatePublished,
	entities.StateRetired,
	entities.StateMerged,
}

func TestCanTransitionTable(t *testing.T) {
	legal := map[entities.WorkflowState]map[entities.WorkflowState]bool{
		entities.StateDraft:     {entities.StateInReview: true, entities.StateRetired: true},
		entities.StateInReview:  {entities.StateDraft: true, entities.StatePublished: true, entities.StateRetired: true},
		entities.StatePublished: {entities.StateRetired: true, entities.StateMerged: true},
		entities.StateRetired:   {},
		entities.StateMerged:    {},
	}

	for _, from := range allStates {
		for _, to := range allStates {
			require.Equal(t, legal[from][to], CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestTerminalStatesAreDeadEnds(t *testing.T) {
	for _, from := range []entities.WorkflowState{entities.StateRetired, entities.StateMerged} {
		require.Empty(t, Allowed(from))
		for _, to := range allStates {
			require.False(t, CanTransition(from, to), "%s must be terminal", from)
		}
	}
}

func TestRequestTransitionStampsOnlyPublish(t *testing.T) {
	tr, err := RequestTransition(entities.StateInReview, entities.StatePublished)
	require.NoError(t, err)
	require.Equal(t, entities.StatePublished, tr.To)
	require.True(t, tr.StampApproval)

	tr, err = RequestTransition(entities.StateDraft, entities.StateInReview)
	require.NoError(t, err)
	require.Equal(t, entities.StateInReview, tr.To)
	require.False(t, tr.StampApproval)

	tr, err = RequestTransition(entities.StateInReview, entities.StateDraft)
	require.NoError(t, err)
	require.False(t, tr.StampApproval)
}

func TestRequestTransitionIllegal(t *testing.T) {
	_, err := RequestTransition(entities.StateDraft, entities.StateMerged)
	require.ErrorIs(t, err, entities.ErrWorkflowViolation)

	var wfErr *entities.WorkflowError
	require.True(t, errors.As(err, &wfErr))
	require.Equal(t, entities.StateDraft, wfErr.Current)
	require.Equal(t, entities.StateMerged, wfErr.Target)
	require.ElementsMatch(t,
		[]entities.WorkflowState{entities.StateInReview, entities.StateRetired},
		wfErr.Allowed)
	require.Contains(t, err.Error(), "draft")
	require.Contains(t, err.Error(), "merged")
	require.Contains(t, err.Error(), "in_review")
}

func TestRequestTransitionFromTerminal(t *testing.T) {
	_, err := RequestTransition(entities.StateMerged, entities.StateDraft)
	require.ErrorIs(t, err, entities.ErrWorkflowViolation)
	require.Contains(t, err.Error(), "terminal")
}

func TestDecisionOutcome(t *testing.T) {
	tr, err := DecisionOutcome(entities.ReviewApproved)
	require.NoError(t, err)
	require.Equal(t, entities.StatePublished, tr.To)
	require.True(t, tr.StampApproval)

	for _, st := range []entities.ReviewStatus{entities.ReviewRejected, entities.ReviewChangesRequested} {
		tr, err := DecisionOutcome(st)
		require.NoError(t, err)
		require.Equal(t, entities.StateDraft, tr.To)
		require.False(t, tr.StampApproval)
	}

	_, err = DecisionOutcome(entities.ReviewPending)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}
