// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"

	"github.com/google/uuid"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// EntryInterface exposes entry persistence operations. Absence is surfaced
// as entities.ErrEntryNotFound so callers can map it uniformly.
type EntryInterface interface {
	CreateEntry(ctx context.Context, entry entities.Entry, symptoms []entities.EntrySymptom, incidents []entities.EntryIncident) (*entities.Entry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*entities.Entry, error)
	GetEntryWithRelations(ctx context.Context, id uuid.UUID) (*entities.Entry, error)
	ListEntries(ctx context.Context, filter entities.EntryFilter) ([]entities.EntrySummary, int64, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, patch entities.EntryPatch) (*entities.Entry, error)
	AddSymptom(ctx context.Context, entryID uuid.UUID, symptom entities.EntrySymptom) (*entities.EntrySymptom, error)
	AddIncident(ctx context.Context, entryID uuid.UUID, incident entities.EntryIncident) (*entities.EntryIncident, error)
	// UpdateWorkflowState moves the entry into newState; the update only
	// lands if the stored state still equals fromState. approvedBy, when
	// non-nil, stamps approved_by/approved_at; mergedInto sets the merge
	// target.
	UpdateWorkflowState(ctx context.Context, id uuid.UUID, fromState, newState entities.WorkflowState, approvedBy *string, mergedInto *uuid.UUID) (*entities.Entry, error)
}

// ReviewInterface exposes review persistence operations. CreateReview and
// DecideReview are transactional units: the review write and the entry state
// write land together or not at all.
type ReviewInterface interface {
	CreateReview(ctx context.Context, review entities.Review, participants []entities.ReviewParticipant, entryState entities.WorkflowState) (*entities.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (*entities.Review, error)
	GetReviewWithParticipants(ctx context.Context, id uuid.UUID) (*entities.Review, error)
	ListEntryReviews(ctx context.Context, entryID uuid.UUID) ([]entities.Review, error)
	AddParticipant(ctx context.Context, reviewID uuid.UUID, participant entities.ReviewParticipant) (*entities.ReviewParticipant, error)
	// DecideReview sets the review status via compare-and-set against
	// "pending" (losers of a decision race get ErrReviewDecided), marks the
	// deciding participant's approved_at when approving, and applies the
	// entry transition in the same transaction.
	DecideReview(ctx context.Context, reviewID uuid.UUID, status entities.ReviewStatus, userID string, entryID uuid.UUID, entryState entities.WorkflowState, stampApproval bool) (*entities.Review, error)
}

// SolutionInterface exposes solution persistence operations.
type SolutionInterface interface {
	CreateSolution(ctx context.Context, solution entities.Solution, steps []entities.SolutionStep) (*entities.Solution, error)
	GetSolution(ctx context.Context, id uuid.UUID) (*entities.Solution, error)
	GetSolutionWithSteps(ctx context.Context, id uuid.UUID) (*entities.Solution, error)
	ListEntrySolutions(ctx context.Context, entryID uuid.UUID) ([]entities.Solution, error)
	UpdateSolution(ctx context.Context, id uuid.UUID, patch entities.SolutionPatch) (*entities.Solution, error)
	DeleteSolution(ctx context.Context, id uuid.UUID) error
	AddStep(ctx context.Context, solutionID uuid.UUID, step entities.SolutionStep) (*entities.SolutionStep, error)
	UpdateStep(ctx context.Context, stepID uuid.UUID, patch entities.SolutionStepPatch) (*entities.SolutionStep, error)
	DeleteStep(ctx context.Context, stepID uuid.UUID) error
}

// TagInterface exposes tag persistence operations.
type TagInterface interface {
	CreateTag(ctx context.Context, tag entities.Tag) (*entities.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*entities.Tag, error)
	GetTagByName(ctx context.Context, name string) (*entities.Tag, error)
	ListTags(ctx context.Context, skip, limit int, category *string) ([]entities.Tag, int64, error)
	UpdateTag(ctx context.Context, id uuid.UUID, patch entities.TagPatch) (*entities.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	TagEntry(ctx context.Context, entryID, tagID uuid.UUID, addedBy string) (*entities.EntryTag, error)
	UntagEntry(ctx context.Context, entryID, tagID uuid.UUID) error
	ListEntryTags(ctx context.Context, entryID uuid.UUID) ([]entities.EntryTag, error)
}

// SearchInterface persists derived search artifacts.
type SearchInterface interface {
	SaveEntryEmbedding(ctx context.Context, embedding entities.EntryEmbedding) error
}
