package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/workflow"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	selectReviewQuery = `SELECT id, entry_id, status, rca_text, created_at, updated_at FROM reviews WHERE id=$1`
	insertReviewQuery = `INSERT INTO reviews(id, entry_id, status, rca_text) VALUES ($1,$2,'pending',$3) RETURNING created_at, updated_at`
	// Compare-and-set: only one decision can ever move the status out of
	// pending; the loser of a race sees zero rows affected.
	decideReviewQuery              = `UPDATE reviews SET status=$2, updated_at=NOW() WHERE id=$1 AND status='pending'`
	insertParticipantQuery         = `INSERT INTO review_participants(id, review_id, user_id, role) VALUES ($1,$2,$3,$4)`
	selectParticipantsQuery        = `SELECT id, review_id, user_id, role, approved_at FROM review_participants WHERE review_id=$1 ORDER BY user_id`
	approveParticipantQuery        = `UPDATE review_participants SET approved_at=NOW() WHERE review_id=$1 AND user_id=$2`
	selectEntryStateForUpdateQuery = `SELECT workflow_state FROM entries WHERE id=$1 FOR UPDATE`
)

// CreateReview opens a pending review against a draft entry and flips the
// entry to the given state, all in one transaction: a failure at any step
// leaves both the review and the entry untouched.
func (p *Postgres) CreateReview(ctx context.Context, review entities.Review, participants []entities.ReviewParticipant, entryState entities.WorkflowState) (res *entities.Review, err error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current entities.WorkflowState
	if err := tx.QueryRow(ctx, selectEntryStateForUpdateQuery, review.EntryID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrEntryNotFound
		}
		p.log.Errorw("failed to lock entry", "error", err, "entry_id", review.EntryID)
		return nil, fmt.Errorf("lock entry: %w", err)
	}
	if current != entities.StateDraft {
		return nil, fmt.Errorf("%w: entry must be in draft to open a review, current state: %s", entities.ErrWorkflowViolation, current)
	}

	review.ID = uuid.New()
	review.Status = entities.ReviewPending
	if err := tx.QueryRow(ctx, insertReviewQuery, review.ID, review.EntryID, review.RCAText).
		Scan(&review.CreatedAt, &review.UpdatedAt); err != nil {
		p.log.Errorw("failed to insert review", "error", err, "entry_id", review.EntryID)
		return nil, fmt.Errorf("insert review: %w", err)
	}

	for i := range participants {
		participants[i].ID = uuid.New()
		participants[i].ReviewID = review.ID
		if _, err := tx.Exec(ctx, insertParticipantQuery,
			participants[i].ID, review.ID, participants[i].UserID, participants[i].Role); err != nil {
			p.log.Errorw("failed to insert participant", "error", err, "user_id", participants[i].UserID)
			return nil, fmt.Errorf("insert participant: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, updateEntryStateQuery, review.EntryID, entities.StateDraft, entryState, (*string)(nil), (*uuid.UUID)(nil))
	if err != nil {
		p.log.Errorw("failed to move entry into review", "error", err, "entry_id", review.EntryID)
		return nil, fmt.Errorf("update entry state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &entities.WorkflowError{Current: current, Target: entryState, Allowed: workflow.Allowed(current)}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	review.Participants = participants
	p.log.Infow("review opened", "review_id", review.ID, "entry_id", review.EntryID)
	return &review, nil
}

// GetReview returns the review without participants.
func (p *Postgres) GetReview(ctx context.Context, id uuid.UUID) (*entities.Review, error) {
	review, err := scanReview(p.db.QueryRow(ctx, selectReviewQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrReviewNotFound
		}
		p.log.Errorw("failed to select review", "error", err, "review_id", id)
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// GetReviewWithParticipants returns the review with participants loaded.
func (p *Postgres) GetReviewWithParticipants(ctx context.Context, id uuid.UUID) (*entities.Review, error) {
	review, err := p.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	participants, err := p.readParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	review.Participants = participants
	return review, nil
}

// ListEntryReviews returns all reviews of an entry, newest first.
func (p *Postgres) ListEntryReviews(ctx context.Context, entryID uuid.UUID) ([]entities.Review, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, entry_id, status, rca_text, created_at, updated_at FROM reviews WHERE entry_id=$1 ORDER BY created_at DESC`, entryID)
	if err != nil {
		p.log.Errorw("failed to list reviews", "error", err, "entry_id", entryID)
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]entities.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reviews {
		participants, err := p.readParticipants(ctx, reviews[i].ID)
		if err != nil {
			return nil, err
		}
		reviews[i].Participants = participants
	}
	return reviews, nil
}

// AddParticipant attaches a user to a pending review.
func (p *Postgres) AddParticipant(ctx context.Context, reviewID uuid.UUID, participant entities.ReviewParticipant) (res *entities.ReviewParticipant, err error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status entities.ReviewStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM reviews WHERE id=$1 FOR UPDATE`, reviewID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrReviewNotFound
		}
		return nil, fmt.Errorf("lock review: %w", err)
	}
	if status != entities.ReviewPending {
		return nil, fmt.Errorf("%w: cannot add participants to %s review", entities.ErrReviewDecided, status)
	}

	participant.ID = uuid.New()
	participant.ReviewID = reviewID
	if _, err := tx.Exec(ctx, insertParticipantQuery, participant.ID, reviewID, participant.UserID, participant.Role); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: user %s already participates", entities.ErrInvalidArgument, participant.UserID)
		}
		p.log.Errorw("failed to insert participant", "error", err, "review_id", reviewID)
		return nil, fmt.Errorf("insert participant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &participant, nil
}

// DecideReview records the one decision a review can receive and applies the
// resulting entry transition atomically. The status CAS guarantees that of
// two concurrent decisions exactly one proceeds; the other gets
// ErrReviewDecided with the status it lost to.
func (p *Postgres) DecideReview(ctx context.Context, reviewID uuid.UUID, status entities.ReviewStatus, userID string, entryID uuid.UUID, entryState entities.WorkflowState, stampApproval bool) (res *entities.Review, err error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, decideReviewQuery, reviewID, status)
	if err != nil {
		p.log.Errorw("failed to update review status", "error", err, "review_id", reviewID)
		return nil, fmt.Errorf("update review status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var current entities.ReviewStatus
		if err := p.db.QueryRow(ctx, `SELECT status FROM reviews WHERE id=$1`, reviewID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, entities.ErrReviewNotFound
			}
			return nil, fmt.Errorf("get review status: %w", err)
		}
		return nil, fmt.Errorf("%w: review is already %s", entities.ErrReviewDecided, current)
	}

	var approvedBy *string
	if stampApproval {
		partTag, err := tx.Exec(ctx, approveParticipantQuery, reviewID, userID)
		if err != nil {
			p.log.Errorw("failed to mark participant approval", "error", err, "review_id", reviewID, "user_id", userID)
			return nil, fmt.Errorf("approve participant: %w", err)
		}
		if partTag.RowsAffected() == 0 {
			return nil, entities.ErrParticipantNotFound
		}
		approvedBy = &userID
	}

	entryTag, err := tx.Exec(ctx, updateEntryStateQuery, entryID, entities.StateInReview, entryState, approvedBy, (*uuid.UUID)(nil))
	if err != nil {
		p.log.Errorw("failed to apply decision transition", "error", err, "entry_id", entryID)
		return nil, fmt.Errorf("update entry state: %w", err)
	}
	if entryTag.RowsAffected() == 0 {
		entry, err := p.GetEntry(ctx, entryID)
		if err != nil {
			return nil, err
		}
		return nil, &entities.WorkflowError{Current: entry.WorkflowState, Target: entryState, Allowed: workflow.Allowed(entry.WorkflowState)}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("review decided", "review_id", reviewID, "status", status, "entry_id", entryID, "entry_state", entryState)
	return p.GetReviewWithParticipants(ctx, reviewID)
}

func scanReview(row rowScanner) (*entities.Review, error) {
	var r entities.Review
	if err := row.Scan(&r.ID, &r.EntryID, &r.Status, &r.RCAText, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *Postgres) readParticipants(ctx context.Context, reviewID uuid.UUID) ([]entities.ReviewParticipant, error) {
	rows, err := p.db.Query(ctx, selectParticipantsQuery, reviewID)
	if err != nil {
		return nil, fmt.Errorf("select participants: %w", err)
	}
	defer rows.Close()
	res := make([]entities.ReviewParticipant, 0)
	for rows.Next() {
		var pt entities.ReviewParticipant
		if err := rows.Scan(&pt.ID, &pt.ReviewID, &pt.UserID, &pt.Role, &pt.ApprovedAt); err != nil {
			return nil, err
		}
		res = append(res, pt)
	}
	return res, rows.Err()
}
