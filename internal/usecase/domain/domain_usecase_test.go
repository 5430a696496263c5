package domain

import (
	"context"
	"testing"
	"time"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type repoMock struct{ mock.Mock }

var _ repository.Repository = (*repoMock)(nil)

func (m *repoMock) OnStart(_ context.Context) error { return nil }
func (m *repoMock) OnStop(_ context.Context) error  { return nil }

func (m *repoMock) CreateEntry(ctx context.Context, entry entities.Entry, symptoms []entities.EntrySymptom, incidents []entities.EntryIncident) (*entities.Entry, error) {
	args := m.Called(ctx, entry, symptoms, incidents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *repoMock) GetEntry(ctx context.Context, id uuid.UUID) (*entities.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *repoMock) GetEntryWithRelations(ctx context.Context, id uuid.UUID) (*entities.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *repoMock) ListEntries(ctx context.Context, filter entities.EntryFilter) ([]entities.EntrySummary, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entities.EntrySummary), args.Get(1).(int64), args.Error(2)
}

func (m *repoMock) UpdateEntry(ctx context.Context, id uuid.UUID, patch entities.EntryPatch) (*entities.Entry, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *repoMock) AddSymptom(ctx context.Context, entryID uuid.UUID, symptom entities.EntrySymptom) (*entities.EntrySymptom, error) {
	args := m.Called(ctx, entryID, symptom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EntrySymptom), args.Error(1)
}

func (m *repoMock) AddIncident(ctx context.Context, entryID uuid.UUID, incident entities.EntryIncident) (*entities.EntryIncident, error) {
	args := m.Called(ctx, entryID, incident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EntryIncident), args.Error(1)
}

func (m *repoMock) UpdateWorkflowState(ctx context.Context, id uuid.UUID, fromState, newState entities.WorkflowState, approvedBy *string, mergedInto *uuid.UUID) (*entities.Entry, error) {
	args := m.Called(ctx, id, fromState, newState, approvedBy, mergedInto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *repoMock) CreateReview(ctx context.Context, review entities.Review, participants []entities.ReviewParticipant, entryState entities.WorkflowState) (*entities.Review, error) {
	args := m.Called(ctx, review, participants, entryState)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *repoMock) GetReview(ctx context.Context, id uuid.UUID) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *repoMock) GetReviewWithParticipants(ctx context.Context, id uuid.UUID) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *repoMock) ListEntryReviews(ctx context.Context, entryID uuid.UUID) ([]entities.Review, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Review), args.Error(1)
}

func (m *repoMock) AddParticipant(ctx context.Context, reviewID uuid.UUID, participant entities.ReviewParticipant) (*entities.ReviewParticipant, error) {
	args := m.Called(ctx, reviewID, participant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReviewParticipant), args.Error(1)
}

func (m *repoMock) DecideReview(ctx context.Context, reviewID uuid.UUID, status entities.ReviewStatus, userID string, entryID uuid.UUID, entryState entities.WorkflowState, stampApproval bool) (*entities.Review, error) {
	args := m.Called(ctx, reviewID, status, userID, entryID, entryState, stampApproval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *repoMock) CreateSolution(ctx context.Context, solution entities.Solution, steps []entities.SolutionStep) (*entities.Solution, error) {
	args := m.Called(ctx, solution, steps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Solution), args.Error(1)
}

func (m *repoMock) GetSolution(ctx context.Context, id uuid.UUID) (*entities.Solution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Solution), args.Error(1)
}

func (m *repoMock) GetSolutionWithSteps(ctx context.Context, id uuid.UUID) (*entities.Solution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Solution), args.Error(1)
}

func (m *repoMock) ListEntrySolutions(ctx context.Context, entryID uuid.UUID) ([]entities.Solution, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Solution), args.Error(1)
}

func (m *repoMock) UpdateSolution(ctx context.Context, id uuid.UUID, patch entities.SolutionPatch) (*entities.Solution, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Solution), args.Error(1)
}

func (m *repoMock) DeleteSolution(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *repoMock) AddStep(ctx context.Context, solutionID uuid.UUID, step entities.SolutionStep) (*entities.SolutionStep, error) {
	args := m.Called(ctx, solutionID, step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SolutionStep), args.Error(1)
}

func (m *repoMock) UpdateStep(ctx context.Context, stepID uuid.UUID, patch entities.SolutionStepPatch) (*entities.SolutionStep, error) {
	args := m.Called(ctx, stepID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SolutionStep), args.Error(1)
}

func (m *repoMock) DeleteStep(ctx context.Context, stepID uuid.UUID) error {
	return m.Called(ctx, stepID).Error(0)
}

func (m *repoMock) CreateTag(ctx context.Context, tag entities.Tag) (*entities.Tag, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tag), args.Error(1)
}

func (m *repoMock) GetTag(ctx context.Context, id uuid.UUID) (*entities.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tag), args.Error(1)
}

func (m *repoMock) GetTagByName(ctx context.Context, name string) (*entities.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tag), args.Error(1)
}

func (m *repoMock) ListTags(ctx context.Context, skip, limit int, category *string) ([]entities.Tag, int64, error) {
	args := m.Called(ctx, skip, limit, category)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entities.Tag), args.Get(1).(int64), args.Error(2)
}

func (m *repoMock) UpdateTag(ctx context.Context, id uuid.UUID, patch entities.TagPatch) (*entities.Tag, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tag), args.Error(1)
}

func (m *repoMock) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *repoMock) TagEntry(ctx context.Context, entryID, tagID uuid.UUID, addedBy string) (*entities.EntryTag, error) {
	args := m.Called(ctx, entryID, tagID, addedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EntryTag), args.Error(1)
}

func (m *repoMock) UntagEntry(ctx context.Context, entryID, tagID uuid.UUID) error {
	return m.Called(ctx, entryID, tagID).Error(0)
}

func (m *repoMock) ListEntryTags(ctx context.Context, entryID uuid.UUID) ([]entities.EntryTag, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.EntryTag), args.Error(1)
}

func (m *repoMock) SaveEntryEmbedding(ctx context.Context, embedding entities.EntryEmbedding) error {
	return m.Called(ctx, embedding).Error(0)
}

// queueRecorder captures indexing requests issued by the usecase layer.
type queueRecorder struct {
	indexed []uuid.UUID
	deleted []uuid.UUID
}

func (q *queueRecorder) EnqueueIndex(id uuid.UUID)  { q.indexed = append(q.indexed, id) }
func (q *queueRecorder) EnqueueDelete(id uuid.UUID) { q.deleted = append(q.deleted, id) }

func newUsecase(repo *repoMock, queue IndexQueue) *Usecase {
	return New(zap.NewNop().Sugar(), context.Background(), repo, time.Second, queue)
}

func draftEntry(id uuid.UUID) *entities.Entry {
	return &entities.Entry{
		ID:            id,
		Title:         "API gateway returns 502 under load",
		Description:   "Upstream connections are dropped when the pool is exhausted.",
		Severity:      entities.SeverityHigh,
		WorkflowState: entities.StateDraft,
		CreatedBy:     "alice",
	}
}

func TestUsecase_CreateEntryValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	_, err := uc.CreateEntry(context.Background(), entities.Entry{}, nil, nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	bad := *draftEntry(uuid.New())
	bad.Severity = "urgent"
	_, err = uc.CreateEntry(context.Background(), bad, nil, nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_CreateEntryDelegatesAndIndexes(t *testing.T) {
	repo := &repoMock{}
	queue := &queueRecorder{}
	uc := newUsecase(repo, queue)

	id := uuid.New()
	expected := draftEntry(id)
	repo.On("CreateEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(expected, nil)

	res, err := uc.CreateEntry(context.Background(), *draftEntry(uuid.Nil), nil, nil)
	require.NoError(t, err)
	require.Equal(t, expected, res)
	require.Equal(t, []uuid.UUID{id}, queue.indexed)
	repo.AssertExpectations(t)
}

func TestUsecase_UpdateEntryRejectsPublished(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	id := uuid.New()
	published := draftEntry(id)
	published.WorkflowState = entities.StatePublished
	repo.On("GetEntry", mock.Anything, id).Return(published, nil)

	title := "new title"
	_, err := uc.UpdateEntry(context.Background(), id, entities.EntryPatch{Title: &title})
	require.ErrorIs(t, err, entities.ErrWorkflowViolation)
	repo.AssertNotCalled(t, "UpdateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_RetireEntryFromPublished(t *testing.T) {
	repo := &repoMock{}
	queue := &queueRecorder{}
	uc := newUsecase(repo, queue)

	id := uuid.New()
	published := draftEntry(id)
	published.WorkflowState = entities.StatePublished
	repo.On("GetEntry", mock.Anything, id).Return(published, nil)

	retired := draftEntry(id)
	retired.WorkflowState = entities.StateRetired
	repo.On("UpdateWorkflowState", mock.Anything, id, entities.StatePublished, entities.StateRetired,
		(*string)(nil), (*uuid.UUID)(nil)).Return(retired, nil)

	require.NoError(t, uc.RetireEntry(context.Background(), id))
	require.Equal(t, []uuid.UUID{id}, queue.deleted)
	repo.AssertExpectations(t)
}

func TestUsecase_TransitionEntryIllegal(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	id := uuid.New()
	published := draftEntry(id)
	published.WorkflowState = entities.StatePublished
	repo.On("GetEntry", mock.Anything, id).Return(published, nil)

	_, err := uc.TransitionEntry(context.Background(), id, entities.StateInReview, "alice", nil)
	require.ErrorIs(t, err, entities.ErrWorkflowViolation)

	var wfErr *entities.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	require.Equal(t, entities.StatePublished, wfErr.Current)
	require.Equal(t, entities.StateInReview, wfErr.Target)
	repo.AssertNotCalled(t, "UpdateWorkflowState",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_TransitionEntryMergeRequiresTarget(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	id := uuid.New()
	published := draftEntry(id)
	published.WorkflowState = entities.StatePublished
	repo.On("GetEntry", mock.Anything, id).Return(published, nil)

	_, err := uc.TransitionEntry(context.Background(), id, entities.StateMerged, "alice", nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestUsecase_CreateReviewRequiresDraft(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	id := uuid.New()
	published := draftEntry(id)
	published.WorkflowState = entities.StatePublished
	repo.On("GetEntry", mock.Anything, id).Return(published, nil)

	_, err := uc.CreateReview(context.Background(), id, nil,
		[]entities.ReviewParticipant{{UserID: "bob", Role: entities.RoleReviewer}}, "alice")
	require.ErrorIs(t, err, entities.ErrWorkflowViolation)
	repo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_CreateReviewMovesEntryToInReview(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	id := uuid.New()
	repo.On("GetEntry", mock.Anything, id).Return(draftEntry(id), nil)

	expected := &entities.Review{ID: uuid.New(), EntryID: id, Status: entities.ReviewPending}
	repo.On("CreateReview", mock.Anything, mock.Anything, mock.Anything, entities.StateInReview).
		Return(expected, nil)

	res, err := uc.CreateReview(context.Background(), id, nil,
		[]entities.ReviewParticipant{{UserID: "bob", Role: entities.RoleReviewer}}, "alice")
	require.NoError(t, err)
	require.Equal(t, expected, res)
	repo.AssertExpectations(t)
}

func TestUsecase_SubmitDecisionNonParticipant(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	reviewID := uuid.New()
	repo.On("GetReviewWithParticipants", mock.Anything, reviewID).Return(&entities.Review{
		ID:      reviewID,
		EntryID: uuid.New(),
		Status:  entities.ReviewPending,
		Participants: []entities.ReviewParticipant{
			{UserID: "alice", Role: entities.RoleLead},
		},
	}, nil)

	_, err := uc.SubmitDecision(context.Background(), reviewID, entities.ReviewApproved, nil, "mallory")
	require.ErrorIs(t, err, entities.ErrNotParticipant)
	repo.AssertNotCalled(t, "DecideReview",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_SubmitDecisionAlreadyDecided(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	reviewID := uuid.New()
	repo.On("GetReviewWithParticipants", mock.Anything, reviewID).Return(&entities.Review{
		ID:      reviewID,
		EntryID: uuid.New(),
		Status:  entities.ReviewApproved,
		Participants: []entities.ReviewParticipant{
			{UserID: "alice", Role: entities.RoleLead},
		},
	}, nil)

	_, err := uc.SubmitDecision(context.Background(), reviewID, entities.ReviewRejected, nil, "alice")
	require.ErrorIs(t, err, entities.ErrReviewDecided)
	require.Contains(t, err.Error(), "review is already approved")
}

func TestUsecase_SubmitDecisionRejectsNonDecision(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	_, err := uc.SubmitDecision(context.Background(), uuid.New(), entities.ReviewPending, nil, "alice")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

// Any participant may decide regardless of role: an observer's approval
// publishes the entry stamped with the observer.
func TestUsecase_SubmitDecisionApprovePublishes(t *testing.T) {
	repo := &repoMock{}
	queue := &queueRecorder{}
	uc := newUsecase(repo, queue)

	reviewID := uuid.New()
	entryID := uuid.New()
	pending := &entities.Review{
		ID:      reviewID,
		EntryID: entryID,
		Status:  entities.ReviewPending,
		Participants: []entities.ReviewParticipant{
			{UserID: "alice", Role: entities.RoleLead},
			{UserID: "bob", Role: entities.RoleObserver},
		},
	}
	repo.On("GetReviewWithParticipants", mock.Anything, reviewID).Return(pending, nil)

	decided := &entities.Review{ID: reviewID, EntryID: entryID, Status: entities.ReviewApproved}
	repo.On("DecideReview", mock.Anything, reviewID, entities.ReviewApproved, "bob",
		entryID, entities.StatePublished, true).Return(decided, nil)

	res, err := uc.SubmitDecision(context.Background(), reviewID, entities.ReviewApproved, nil, "bob")
	require.NoError(t, err)
	require.Equal(t, decided, res)
	require.Equal(t, []uuid.UUID{entryID}, queue.indexed)
	repo.AssertExpectations(t)
}

func TestUsecase_SubmitDecisionChangesRequestedReturnsToDraft(t *testing.T) {
	repo := &repoMock{}
	queue := &queueRecorder{}
	uc := newUsecase(repo, queue)

	reviewID := uuid.New()
	entryID := uuid.New()
	repo.On("GetReviewWithParticipants", mock.Anything, reviewID).Return(&entities.Review{
		ID:      reviewID,
		EntryID: entryID,
		Status:  entities.ReviewPending,
		Participants: []entities.ReviewParticipant{
			{UserID: "alice", Role: entities.RoleReviewer},
		},
	}, nil)

	decided := &entities.Review{ID: reviewID, EntryID: entryID, Status: entities.ReviewChangesRequested}
	repo.On("DecideReview", mock.Anything, reviewID, entities.ReviewChangesRequested, "alice",
		entryID, entities.StateDraft, false).Return(decided, nil)

	res, err := uc.SubmitDecision(context.Background(), reviewID, entities.ReviewChangesRequested, nil, "alice")
	require.NoError(t, err)
	require.Equal(t, decided, res)
	require.Empty(t, queue.indexed)
	repo.AssertExpectations(t)
}

func TestUsecase_AddParticipantToDecidedReview(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	reviewID := uuid.New()
	repo.On("GetReview", mock.Anything, reviewID).Return(&entities.Review{
		ID:     reviewID,
		Status: entities.ReviewRejected,
	}, nil)

	_, err := uc.AddParticipant(context.Background(), reviewID, "carol", entities.RoleObserver)
	require.ErrorIs(t, err, entities.ErrReviewDecided)
	repo.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_UpdateTagRenameConflict(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(repo, nil)

	id := uuid.New()
	taken := "networking"
	repo.On("GetTagByName", mock.Anything, taken).Return(&entities.Tag{ID: uuid.New(), Name: taken}, nil)

	_, err := uc.UpdateTag(context.Background(), id, entities.TagPatch{Name: &taken})
	require.ErrorIs(t, err, entities.ErrTagExists)
	repo.AssertNotCalled(t, "UpdateTag", mock.Anything, mock.Anything, mock.Anything)
}
