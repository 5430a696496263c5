package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertSolutionQuery = `INSERT INTO solutions(id, entry_id, title, description, solution_type, estimated_time_minutes, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING created_at, updated_at`
	selectSolutionQuery = `SELECT id, entry_id, title, description, solution_type, estimated_time_minutes, created_by, created_at, updated_at
		FROM solutions WHERE id=$1`
	insertStepQuery = `INSERT INTO solution_steps(id, solution_id, order_index, action, expected_result, command, rollback_action, rollback_command, step_metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	selectStepsQuery = `SELECT id, solution_id, order_index, action, expected_result, command, rollback_action, rollback_command, step_metadata
		FROM solution_steps WHERE solution_id=$1 ORDER BY order_index`
	selectStepQuery = `SELECT id, solution_id, order_index, action, expected_result, command, rollback_action, rollback_command, step_metadata
		FROM solution_steps WHERE id=$1`
)

// CreateSolution inserts the solution with its steps in one transaction.
func (p *Postgres) CreateSolution(ctx context.Context, solution entities.Solution, steps []entities.SolutionStep) (res *entities.Solution, err error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	solution.ID = uuid.New()
	if err := tx.QueryRow(ctx, insertSolutionQuery,
		solution.ID, solution.EntryID, solution.Title, solution.Description,
		solution.SolutionType, solution.EstimatedTimeMinutes, solution.CreatedBy,
	).Scan(&solution.CreatedAt, &solution.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return nil, entities.ErrEntryNotFound
		}
		p.log.Errorw("failed to insert solution", "error", err, "entry_id", solution.EntryID)
		return nil, fmt.Errorf("insert solution: %w", err)
	}

	for i := range steps {
		steps[i].ID = uuid.New()
		steps[i].SolutionID = solution.ID
		if _, err := tx.Exec(ctx, insertStepQuery,
			steps[i].ID, solution.ID, steps[i].OrderIndex, steps[i].Action,
			steps[i].ExpectedResult, steps[i].Command, steps[i].RollbackAction,
			steps[i].RollbackCommand, steps[i].StepMetadata); err != nil {
			p.log.Errorw("failed to insert step", "error", err, "solution_id", solution.ID)
			return nil, fmt.Errorf("insert step: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	solution.Steps = steps
	p.log.Infow("solution created", "solution_id", solution.ID, "entry_id", solution.EntryID)
	return &solution, nil
}

// GetSolution returns the solution without steps.
func (p *Postgres) GetSolution(ctx context.Context, id uuid.UUID) (*entities.Solution, error) {
	solution, err := scanSolution(p.db.QueryRow(ctx, selectSolutionQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrSolutionNotFound
		}
		p.log.Errorw("failed to select solution", "error", err, "solution_id", id)
		return nil, fmt.Errorf("get solution: %w", err)
	}
	return solution, nil
}

// GetSolutionWithSteps returns the solution with steps ordered by index.
func (p *Postgres) GetSolutionWithSteps(ctx context.Context, id uuid.UUID) (*entities.Solution, error) {
	solution, err := p.GetSolution(ctx, id)
	if err != nil {
		return nil, err
	}
	steps, err := p.readSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	solution.Steps = steps
	return solution, nil
}

// ListEntrySolutions returns all solutions of an entry with steps.
func (p *Postgres) ListEntrySolutions(ctx context.Context, entryID uuid.UUID) ([]entities.Solution, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, entry_id, title, description, solution_type, estimated_time_minutes, created_by, created_at, updated_at
		FROM solutions WHERE entry_id=$1 ORDER BY created_at DESC`, entryID)
	if err != nil {
		p.log.Errorw("failed to list solutions", "error", err, "entry_id", entryID)
		return nil, fmt.Errorf("list solutions: %w", err)
	}
	defer rows.Close()

	solutions := make([]entities.Solution, 0)
	for rows.Next() {
		s, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range solutions {
		steps, err := p.readSteps(ctx, solutions[i].ID)
		if err != nil {
			return nil, err
		}
		solutions[i].Steps = steps
	}
	return solutions, nil
}

// UpdateSolution applies the patch and returns the fresh row with steps.
func (p *Postgres) UpdateSolution(ctx context.Context, id uuid.UUID, patch entities.SolutionPatch) (*entities.Solution, error) {
	tag, err := p.db.Exec(ctx, `UPDATE solutions SET
		title=COALESCE($2, title),
		description=COALESCE($3, description),
		solution_type=COALESCE($4, solution_type),
		estimated_time_minutes=COALESCE($5, estimated_time_minutes),
		updated_at=NOW()
		WHERE id=$1`,
		id, patch.Title, patch.Description, patch.SolutionType, patch.EstimatedTimeMinutes)
	if err != nil {
		p.log.Errorw("failed to update solution", "error", err, "solution_id", id)
		return nil, fmt.Errorf("update solution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, entities.ErrSolutionNotFound
	}
	return p.GetSolutionWithSteps(ctx, id)
}

// DeleteSolution removes the solution; steps go with it via cascade.
func (p *Postgres) DeleteSolution(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM solutions WHERE id=$1`, id)
	if err != nil {
		p.log.Errorw("failed to delete solution", "error", err, "solution_id", id)
		return fmt.Errorf("delete solution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrSolutionNotFound
	}
	return nil
}

// AddStep appends a step to a solution.
func (p *Postgres) AddStep(ctx context.Context, solutionID uuid.UUID, step entities.SolutionStep) (*entities.SolutionStep, error) {
	step.ID = uuid.New()
	step.SolutionID = solutionID
	if _, err := p.db.Exec(ctx, insertStepQuery,
		step.ID, solutionID, step.OrderIndex, step.Action, step.ExpectedResult,
		step.Command, step.RollbackAction, step.RollbackCommand, step.StepMetadata); err != nil {
		if isForeignKeyViolation(err) {
			return nil, entities.ErrSolutionNotFound
		}
		p.log.Errorw("failed to insert step", "error", err, "solution_id", solutionID)
		return nil, fmt.Errorf("insert step: %w", err)
	}
	return &step, nil
}

// UpdateStep applies the patch and returns the fresh step.
func (p *Postgres) UpdateStep(ctx context.Context, stepID uuid.UUID, patch entities.SolutionStepPatch) (*entities.SolutionStep, error) {
	tag, err := p.db.Exec(ctx, `UPDATE solution_steps SET
		order_index=COALESCE($2, order_index),
		action=COALESCE($3, action),
		expected_result=COALESCE($4, expected_result),
		command=COALESCE($5, command),
		rollback_action=COALESCE($6, rollback_action),
		rollback_command=COALESCE($7, rollback_command),
		step_metadata=COALESCE($8, step_metadata)
		WHERE id=$1`,
		stepID, patch.OrderIndex, patch.Action, patch.ExpectedResult,
		patch.Command, patch.RollbackAction, patch.RollbackCommand, patch.StepMetadata)
	if err != nil {
		p.log.Errorw("failed to update step", "error", err, "step_id", stepID)
		return nil, fmt.Errorf("update step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, entities.ErrStepNotFound
	}

	step, err := scanStep(p.db.QueryRow(ctx, selectStepQuery, stepID))
	if err != nil {
		return nil, fmt.Errorf("get step: %w", err)
	}
	return step, nil
}

// DeleteStep removes a single step.
func (p *Postgres) DeleteStep(ctx context.Context, stepID uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM solution_steps WHERE id=$1`, stepID)
	if err != nil {
		p.log.Errorw("failed to delete step", "error", err, "step_id", stepID)
		return fmt.Errorf("delete step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrStepNotFound
	}
	return nil
}

func scanSolution(row rowScanner) (*entities.Solution, error) {
	var s entities.Solution
	if err := row.Scan(&s.ID, &s.EntryID, &s.Title, &s.Description, &s.SolutionType,
		&s.EstimatedTimeMinutes, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanStep(row rowScanner) (*entities.SolutionStep, error) {
	var s entities.SolutionStep
	if err := row.Scan(&s.ID, &s.SolutionID, &s.OrderIndex, &s.Action, &s.ExpectedResult,
		&s.Command, &s.RollbackAction, &s.RollbackCommand, &s.StepMetadata); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *Postgres) readSteps(ctx context.Context, solutionID uuid.UUID) ([]entities.SolutionStep, error) {
	rows, err := p.db.Query(ctx, selectStepsQuery, solutionID)
	if err != nil {
		return nil, fmt.Errorf("select steps: %w", err)
	}
	defer rows.Close()
	res := make([]entities.SolutionStep, 0)
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *s)
	}
	return res, rows.Err()
}
