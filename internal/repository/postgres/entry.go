package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/workflow"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertEntryQuery = `INSERT INTO entries(id, title, description, severity, root_cause, environment, workflow_state, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,'draft',$7) RETURNING created_at, updated_at`
	selectEntryQuery = `SELECT id, title, description, severity, root_cause, environment, workflow_state,
		created_by, approved_by, approved_at, merged_into_id, created_at, updated_at FROM entries WHERE id=$1`
	selectEntryForUpdateQuery = selectEntryQuery + ` FOR UPDATE`
	insertSymptomQuery        = `INSERT INTO entry_symptoms(id, entry_id, description, order_index) VALUES ($1,$2,$3,$4)`
	insertIncidentQuery       = `INSERT INTO entry_incidents(id, entry_id, incident_id, incident_source) VALUES ($1,$2,$3,$4)`
	selectSymptomsQuery       = `SELECT id, entry_id, description, order_index FROM entry_symptoms WHERE entry_id=$1 ORDER BY order_index`
	selectIncidentsQuery      = `SELECT id, entry_id, incident_id, incident_source FROM entry_incidents WHERE entry_id=$1`
	updateEntryStateQuery     = `UPDATE entries SET workflow_state=$3,
		approved_by=COALESCE($4, approved_by),
		approved_at=CASE WHEN $4::text IS NOT NULL THEN NOW() ELSE approved_at END,
		merged_into_id=COALESCE($5, merged_into_id),
		updated_at=NOW()
		WHERE id=$1 AND workflow_state=$2`
	insertEmbeddingQuery = `INSERT INTO entry_embeddings(id, entry_id, model_name, dimension, embedding)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (entry_id, model_name) DO UPDATE SET dimension=EXCLUDED.dimension, embedding=EXCLUDED.embedding, created_at=NOW()`
)

// CreateEntry inserts the entry with its symptoms and incidents in one transaction.
func (p *Postgres) CreateEntry(ctx context.Context, entry entities.Entry, symptoms []entities.EntrySymptom, incidents []entities.EntryIncident) (res *entities.Entry, err error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.WorkflowState = entities.StateDraft

	if err := tx.QueryRow(ctx, insertEntryQuery,
		entry.ID, entry.Title, entry.Description, entry.Severity,
		entry.RootCause, entry.Environment, entry.CreatedBy,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt); err != nil {
		p.log.Errorw("failed to insert entry", "error", err)
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	for i := range symptoms {
		symptoms[i].ID = uuid.New()
		symptoms[i].EntryID = entry.ID
		if _, err := tx.Exec(ctx, insertSymptomQuery,
			symptoms[i].ID, entry.ID, symptoms[i].Description, symptoms[i].OrderIndex); err != nil {
			p.log.Errorw("failed to insert symptom", "error", err, "entry_id", entry.ID)
			return nil, fmt.Errorf("insert symptom: %w", err)
		}
	}
	for i := range incidents {
		incidents[i].ID = uuid.New()
		incidents[i].EntryID = entry.ID
		if _, err := tx.Exec(ctx, insertIncidentQuery,
			incidents[i].ID, entry.ID, incidents[i].IncidentID, incidents[i].IncidentSource); err != nil {
			p.log.Errorw("failed to insert incident", "error", err, "entry_id", entry.ID)
			return nil, fmt.Errorf("insert incident: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	entry.Symptoms = symptoms
	entry.Incidents = incidents
	p.log.Infow("entry created", "entry_id", entry.ID)
	return &entry, nil
}

// GetEntry returns the entry without satellite collections.
func (p *Postgres) GetEntry(ctx context.Context, id uuid.UUID) (*entities.Entry, error) {
	entry, err := scanEntry(p.db.QueryRow(ctx, selectEntryQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrEntryNotFound
		}
		p.log.Errorw("failed to select entry", "error", err, "entry_id", id)
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// GetEntryWithRelations returns the entry with symptoms and incidents loaded.
func (p *Postgres) GetEntryWithRelations(ctx context.Context, id uuid.UUID) (*entities.Entry, error) {
	entry, err := p.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	symptoms, err := p.readSymptoms(ctx, id)
	if err != nil {
		return nil, err
	}
	incidents, err := p.readIncidents(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Symptoms = symptoms
	entry.Incidents = incidents
	return entry, nil
}

// ListEntries returns filtered summaries plus the total matching count.
func (p *Postgres) ListEntries(ctx context.Context, filter entities.EntryFilter) ([]entities.EntrySummary, int64, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.WorkflowState != nil {
		args = append(args, *filter.WorkflowState)
		where = append(where, fmt.Sprintf("workflow_state=$%d", len(args)))
	}
	if filter.Severity != nil {
		args = append(args, *filter.Severity)
		where = append(where, fmt.Sprintf("severity=$%d", len(args)))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		where = append(where, fmt.Sprintf("created_by=$%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM entries`+cond, args...).Scan(&total); err != nil {
		p.log.Errorw("failed to count entries", "error", err)
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	args = append(args, filter.Limit, filter.Skip)
	query := fmt.Sprintf(
		`SELECT id, title, severity, workflow_state, created_by, created_at FROM entries%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		cond, len(args)-1, len(args),
	)
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		p.log.Errorw("failed to list entries", "error", err)
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	items := make([]entities.EntrySummary, 0)
	for rows.Next() {
		var s entities.EntrySummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Severity, &s.WorkflowState, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateEntry applies the patch and returns the fresh row.
func (p *Postgres) UpdateEntry(ctx context.Context, id uuid.UUID, patch entities.EntryPatch) (*entities.Entry, error) {
	tag, err := p.db.Exec(ctx, `UPDATE entries SET
		title=COALESCE($2, title),
		description=COALESCE($3, description),
		severity=COALESCE($4, severity),
		root_cause=COALESCE($5, root_cause),
		environment=COALESCE($6, environment),
		updated_at=NOW()
		WHERE id=$1`,
		id, patch.Title, patch.Description, patch.Severity, patch.RootCause, patch.Environment)
	if err != nil {
		p.log.Errorw("failed to update entry", "error", err, "entry_id", id)
		return nil, fmt.Errorf("update entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, entities.ErrEntryNotFound
	}
	return p.GetEntryWithRelations(ctx, id)
}

// AddSymptom appends a symptom to an entry.
func (p *Postgres) AddSymptom(ctx context.Context, entryID uuid.UUID, symptom entities.EntrySymptom) (*entities.EntrySymptom, error) {
	symptom.ID = uuid.New()
	symptom.EntryID = entryID
	if _, err := p.db.Exec(ctx, insertSymptomQuery, symptom.ID, entryID, symptom.Description, symptom.OrderIndex); err != nil {
		if isForeignKeyViolation(err) {
			return nil, entities.ErrEntryNotFound
		}
		p.log.Errorw("failed to insert symptom", "error", err, "entry_id", entryID)
		return nil, fmt.Errorf("insert symptom: %w", err)
	}
	return &symptom, nil
}

// AddIncident links an incident to an entry.
func (p *Postgres) AddIncident(ctx context.Context, entryID uuid.UUID, incident entities.EntryIncident) (*entities.EntryIncident, error) {
	incident.ID = uuid.New()
	incident.EntryID = entryID
	if _, err := p.db.Exec(ctx, insertIncidentQuery, incident.ID, entryID, incident.IncidentID, incident.IncidentSource); err != nil {
		if isForeignKeyViolation(err) {
			return nil, entities.ErrEntryNotFound
		}
		p.log.Errorw("failed to insert incident", "error", err, "entry_id", entryID)
		return nil, fmt.Errorf("insert incident: %w", err)
	}
	return &incident, nil
}

// UpdateWorkflowState moves the entry state with a guard on the expected
// current state, so a concurrent transition cannot be silently overwritten.
func (p *Postgres) UpdateWorkflowState(ctx context.Context, id uuid.UUID, fromState, newState entities.WorkflowState, approvedBy *string, mergedInto *uuid.UUID) (*entities.Entry, error) {
	tag, err := p.db.Exec(ctx, updateEntryStateQuery, id, fromState, newState, approvedBy, mergedInto)
	if err != nil {
		p.log.Errorw("failed to update workflow state", "error", err, "entry_id", id)
		return nil, fmt.Errorf("update workflow state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the entry is gone or its state moved under us.
		entry, err := p.GetEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &entities.WorkflowError{Current: entry.WorkflowState, Target: newState, Allowed: workflow.Allowed(entry.WorkflowState)}
	}
	p.log.Infow("entry state changed", "entry_id", id, "from", fromState, "to", newState)
	return p.GetEntry(ctx, id)
}

// SaveEntryEmbedding upserts the embedding vector for an entry/model pair.
func (p *Postgres) SaveEntryEmbedding(ctx context.Context, embedding entities.EntryEmbedding) error {
	if _, err := p.db.Exec(ctx, insertEmbeddingQuery,
		uuid.New(), embedding.EntryID, embedding.ModelName, embedding.Dimension, embedding.Embedding); err != nil {
		p.log.Errorw("failed to save embedding", "error", err, "entry_id", embedding.EntryID)
		return fmt.Errorf("save embedding: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*entities.Entry, error) {
	var e entities.Entry
	if err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Severity, &e.RootCause, &e.Environment,
		&e.WorkflowState, &e.CreatedBy, &e.ApprovedBy, &e.ApprovedAt, &e.MergedIntoID,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (p *Postgres) readSymptoms(ctx context.Context, entryID uuid.UUID) ([]entities.EntrySymptom, error) {
	rows, err := p.db.Query(ctx, selectSymptomsQuery, entryID)
	if err != nil {
		return nil, fmt.Errorf("select symptoms: %w", err)
	}
	defer rows.Close()
	res := make([]entities.EntrySymptom, 0)
	for rows.Next() {
		var s entities.EntrySymptom
		if err := rows.Scan(&s.ID, &s.EntryID, &s.Description, &s.OrderIndex); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (p *Postgres) readIncidents(ctx context.Context, entryID uuid.UUID) ([]entities.EntryIncident, error) {
	rows, err := p.db.Query(ctx, selectIncidentsQuery, entryID)
	if err != nil {
		return nil, fmt.Errorf("select incidents: %w", err)
	}
	defer rows.Close()
	res := make([]entities.EntryIncident, 0)
	for rows.Next() {
		var i entities.EntryIncident
		if err := rows.Scan(&i.ID, &i.EntryID, &i.IncidentID, &i.IncidentSource); err != nil {
			return nil, err
		}
		res = append(res, i)
	}
	return res, rows.Err()
}
