package usecase

import (
	"context"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"

	"github.com/google/uuid"
)

// EntryUsecaseInterface abstracts entry-related operations for delivery layer.
type EntryUsecaseInterface interface {
	CreateEntry(ctx context.Context, entry entities.Entry, symptoms []entities.EntrySymptom, incidents []entities.EntryIncident) (*entities.Entry, error)
	Entry(ctx context.Context, id uuid.UUID) (*entities.Entry, error)
	ListEntries(ctx context.Context, filter entities.EntryFilter) (entities.Page[entities.EntrySummary], error)
	UpdateEntry(ctx context.Context, id uuid.UUID, patch entities.EntryPatch) (*entities.Entry, error)
	RetireEntry(ctx context.Context, id uuid.UUID) error
	AddSymptom(ctx context.Context, entryID uuid.UUID, symptom entities.EntrySymptom) (*entities.EntrySymptom, error)
	AddIncident(ctx context.Context, entryID uuid.UUID, incident entities.EntryIncident) (*entities.EntryIncident, error)
	TransitionEntry(ctx context.Context, id uuid.UUID, target entities.WorkflowState, actor string, mergedInto *uuid.UUID) (*entities.Entry, error)
}

// ReviewUsecaseInterface abstracts the review workflow.
type ReviewUsecaseInterface interface {
	CreateReview(ctx context.Context, entryID uuid.UUID, rcaText *string, participants []entities.ReviewParticipant, createdBy string) (*entities.Review, error)
	Review(ctx context.Context, id uuid.UUID) (*entities.Review, error)
	EntryReviews(ctx context.Context, entryID uuid.UUID) ([]entities.Review, error)
	AddParticipant(ctx context.Context, reviewID uuid.UUID, userID string, role entities.ParticipantRole) (*entities.ReviewParticipant, error)
	SubmitDecision(ctx context.Context, reviewID uuid.UUID, status entities.ReviewStatus, comment *string, userID string) (*entities.Review, error)
}

// SolutionUsecaseInterface abstracts solution-related operations.
type SolutionUsecaseInterface interface {
	CreateSolution(ctx context.Context, entryID uuid.UUID, solution entities.Solution, steps []entities.SolutionStep) (*entities.Solution, error)
	Solution(ctx context.Context, id uuid.UUID) (*entities.Solution, error)
	EntrySolutions(ctx context.Context, entryID uuid.UUID) ([]entities.Solution, error)
	UpdateSolution(ctx context.Context, id uuid.UUID, patch entities.SolutionPatch) (*entities.Solution, error)
	DeleteSolution(ctx context.Context, id uuid.UUID) error
	AddStep(ctx context.Context, solutionID uuid.UUID, step entities.SolutionStep) (*entities.SolutionStep, error)
	UpdateStep(ctx context.Context, stepID uuid.UUID, patch entities.SolutionStepPatch) (*entities.SolutionStep, error)
	DeleteStep(ctx context.Context, stepID uuid.UUID) error
}

// TagUsecaseInterface abstracts tag-related operations.
type TagUsecaseInterface interface {
	CreateTag(ctx context.Context, tag entities.Tag) (*entities.Tag, error)
	Tag(ctx context.Context, id uuid.UUID) (*entities.Tag, error)
	ListTags(ctx context.Context, skip, limit int, category *string) (entities.Page[entities.Tag], error)
	UpdateTag(ctx context.Context, id uuid.UUID, patch entities.TagPatch) (*entities.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	TagEntry(ctx context.Context, entryID, tagID uuid.UUID, addedBy string) (*entities.EntryTag, error)
	UntagEntry(ctx context.Context, entryID, tagID uuid.UUID) error
	EntryTags(ctx context.Context, entryID uuid.UUID) ([]entities.EntryTag, error)
}
