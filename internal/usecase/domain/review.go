// Package domain contains application services orchestrating domain logic by review.
package domain

import (
	"context"
	"fmt"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/workflow"

	"github.com/google/uuid"
)

// CreateReview opens a review against a draft entry. The review is created
// pending and the entry moves to in_review in the same transaction, so no
// caller can ever observe one write without the other.
func (u *Usecase) CreateReview(ctx context.Context, entryID uuid.UUID, rcaText *string, participants []entities.ReviewParticipant, createdBy string) (*entities.Review, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if createdBy == "" {
		return nil, fmt.Errorf("%w: created_by is required", entities.ErrInvalidArgument)
	}
	for _, p := range participants {
		if p.UserID == "" {
			return nil, fmt.Errorf("%w: participant user_id is required", entities.ErrInvalidArgument)
		}
		if !p.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown participant role %q", entities.ErrInvalidArgument, p.Role)
		}
	}

	entry, err := u.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	// Opening a review is gated on draft, stricter than the transition table
	// alone: in_review is reachable only through this path.
	if entry.WorkflowState != entities.StateDraft {
		return nil, fmt.Errorf("%w: entry must be in draft to open a review, current state: %s", entities.ErrWorkflowViolation, entry.WorkflowState)
	}

	tr, err := workflow.RequestTransition(entities.StateDraft, entities.StateInReview)
	if err != nil {
		return nil, err
	}

	review := entities.Review{EntryID: entryID, RCAText: rcaText}
	res, err := u.repo.CreateReview(ctx, review, participants, tr.To)
	if err != nil {
		return nil, err
	}
	u.log.Infow("review create", "review_id", res.ID, "entry_id", entryID, "created_by", createdBy)
	return res, nil
}

// Review returns a review with its participants.
func (u *Usecase) Review(ctx context.Context, id uuid.UUID) (*entities.Review, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetReviewWithParticipants(ctx, id)
}

// EntryReviews returns all reviews opened against an entry.
func (u *Usecase) EntryReviews(ctx context.Context, entryID uuid.UUID) ([]entities.Review, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.repo.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}
	return u.repo.ListEntryReviews(ctx, entryID)
}

// AddParticipant attaches a user to a pending review. Participants are
// frozen once a decision exists.
func (u *Usecase) AddParticipant(ctx context.Context, reviewID uuid.UUID, userID string, role entities.ParticipantRole) (*entities.ReviewParticipant, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", entities.ErrInvalidArgument)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown participant role %q", entities.ErrInvalidArgument, role)
	}

	review, err := u.repo.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status != entities.ReviewPending {
		return nil, fmt.Errorf("%w: cannot add participants to %s review", entities.ErrReviewDecided, review.Status)
	}

	return u.repo.AddParticipant(ctx, reviewID, entities.ReviewParticipant{UserID: userID, Role: role})
}

// SubmitDecision records the single decision a review receives and applies
// the resulting entry transition: approved publishes the entry stamped with
// the deciding user, rejected and changes_requested both send it back to
// draft. Any participant may decide regardless of role.
func (u *Usecase) SubmitDecision(ctx context.Context, reviewID uuid.UUID, status entities.ReviewStatus, comment *string, userID string) (*entities.Review, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", entities.ErrInvalidArgument)
	}
	if !status.IsDecision() {
		return nil, fmt.Errorf("%w: %q is not a decision", entities.ErrInvalidArgument, status)
	}

	review, err := u.repo.GetReviewWithParticipants(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status != entities.ReviewPending {
		return nil, fmt.Errorf("%w: review is already %s", entities.ErrReviewDecided, review.Status)
	}
	if !review.HasParticipant(userID) {
		return nil, fmt.Errorf("%w: user %s", entities.ErrNotParticipant, userID)
	}

	tr, err := workflow.DecisionOutcome(status)
	if err != nil {
		return nil, err
	}

	res, err := u.repo.DecideReview(ctx, reviewID, status, userID, review.EntryID, tr.To, tr.StampApproval)
	if err != nil {
		return nil, err
	}
	u.log.Infow("review decision", "review_id", reviewID, "status", status, "user_id", userID, "entry_state", tr.To)

	if tr.To == entities.StatePublished {
		u.index.EnqueueIndex(review.EntryID)
	}
	return res, nil
}
