// Package domain contains application services orchestrating domain logic by entry.
package domain

import (
	"context"
	"fmt"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/workflow"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CreateEntry creates a new draft entry with optional symptoms and incidents.
func (u *Usecase) CreateEntry(ctx context.Context, entry entities.Entry, symptoms []entities.EntrySymptom, incidents []entities.EntryIncident) (*entities.Entry, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if entry.Title == "" || entry.Description == "" || entry.CreatedBy == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	if !entry.Severity.Valid() {
		return nil, fmt.Errorf("%w: unknown severity %q", entities.ErrInvalidArgument, entry.Severity)
	}

	res, err := u.repo.CreateEntry(ctx, entry, symptoms, incidents)
	if err != nil {
		return nil, err
	}
	u.log.Infow("entry create", "entry_id", res.ID, "created_by", res.CreatedBy)
	u.index.EnqueueIndex(res.ID)
	return res, nil
}

// Entry returns an entry with its symptoms and incidents.
func (u *Usecase) Entry(ctx context.Context, id uuid.UUID) (*entities.Entry, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetEntryWithRelations(ctx, id)
}

// ListEntries returns filtered entry summaries with pagination counters.
func (u *Usecase) ListEntries(ctx context.Context, filter entities.EntryFilter) (entities.Page[entities.EntrySummary], error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	items, total, err := u.repo.ListEntries(ctx, filter)
	if err != nil {
		return entities.Page[entities.EntrySummary]{}, err
	}
	return entities.Page[entities.EntrySummary]{
		Total: total,
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Items: items,
	}, nil
}

// UpdateEntry edits entry fields; only draft and in_review entries may change.
func (u *Usecase) UpdateEntry(ctx context.Context, id uuid.UUID, patch entities.EntryPatch) (*entities.Entry, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if patch.Severity != nil && !patch.Severity.Valid() {
		return nil, fmt.Errorf("%w: unknown severity %q", entities.ErrInvalidArgument, *patch.Severity)
	}

	entry, err := u.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.WorkflowState != entities.StateDraft && entry.WorkflowState != entities.StateInReview {
		return nil, fmt.Errorf("%w: cannot update entry in %s state", entities.ErrWorkflowViolation, entry.WorkflowState)
	}

	res, err := u.repo.UpdateEntry(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	u.index.EnqueueIndex(id)
	return res, nil
}

// RetireEntry soft-deletes the entry by moving it to retired.
func (u *Usecase) RetireEntry(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	entry, err := u.repo.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	tr, err := workflow.RequestTransition(entry.WorkflowState, entities.StateRetired)
	if err != nil {
		return err
	}
	if _, err := u.repo.UpdateWorkflowState(ctx, id, entry.WorkflowState, tr.To, nil, nil); err != nil {
		return err
	}
	u.log.Infow("entry retired", "entry_id", id)
	u.index.EnqueueDelete(id)
	return nil
}

// AddSymptom appends a symptom to an entry.
func (u *Usecase) AddSymptom(ctx context.Context, entryID uuid.UUID, symptom entities.EntrySymptom) (*entities.EntrySymptom, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if symptom.Description == "" {
		return nil, fmt.Errorf("%w: description is required", entities.ErrInvalidArgument)
	}
	if symptom.OrderIndex < 0 {
		return nil, fmt.Errorf("%w: order_index must be non-negative", entities.ErrInvalidArgument)
	}

	res, err := u.repo.AddSymptom(ctx, entryID, symptom)
	if err != nil {
		return nil, err
	}
	u.index.EnqueueIndex(entryID)
	return res, nil
}

// AddIncident links an external incident to an entry.
func (u *Usecase) AddIncident(ctx context.Context, entryID uuid.UUID, incident entities.EntryIncident) (*entities.EntryIncident, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if incident.IncidentID == "" || incident.IncidentSource == "" {
		return nil, fmt.Errorf("%w: incident_id and incident_source are required", entities.ErrInvalidArgument)
	}
	return u.repo.AddIncident(ctx, entryID, incident)
}

// TransitionEntry moves an entry to the target state when the transition
// table allows it. Publishing stamps the approval fields with the actor;
// merging records the target entry.
func (u *Usecase) TransitionEntry(ctx context.Context, id uuid.UUID, target entities.WorkflowState, actor string, mergedInto *uuid.UUID) (*entities.Entry, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown workflow state %q", entities.ErrInvalidArgument, target)
	}

	entry, err := u.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := workflow.RequestTransition(entry.WorkflowState, target)
	if err != nil {
		return nil, err
	}

	var approvedBy *string
	if tr.StampApproval {
		if actor == "" {
			return nil, fmt.Errorf("%w: actor is required to publish", entities.ErrInvalidArgument)
		}
		approvedBy = &actor
	}
	if target == entities.StateMerged && mergedInto == nil {
		return nil, fmt.Errorf("%w: merged_into_id is required to merge", entities.ErrInvalidArgument)
	}
	if target != entities.StateMerged {
		mergedInto = nil
	}

	res, err := u.repo.UpdateWorkflowState(ctx, id, entry.WorkflowState, tr.To, approvedBy, mergedInto)
	if err != nil {
		return nil, err
	}
	u.log.Infow("entry transition", "entry_id", id, "from", entry.WorkflowState, "to", tr.To)

	switch tr.To {
	case entities.StateRetired:
		u.index.EnqueueDelete(id)
	default:
		u.index.EnqueueIndex(id)
	}
	return res, nil
}
