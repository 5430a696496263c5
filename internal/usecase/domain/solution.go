// Package domain contains application services orchestrating domain logic by solution.
package domain

import (
	"context"
	"fmt"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"

	"github.com/google/uuid"
)

// CreateSolution attaches a solution with optional steps to an entry.
func (u *Usecase) CreateSolution(ctx context.Context, entryID uuid.UUID, solution entities.Solution, steps []entities.SolutionStep) (*entities.Solution, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if solution.Title == "" || solution.Description == "" || solution.CreatedBy == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	if solution.SolutionType != entities.SolutionWorkaround && solution.SolutionType != entities.SolutionResolution {
		return nil, fmt.Errorf("%w: unknown solution type %q", entities.ErrInvalidArgument, solution.SolutionType)
	}
	for _, s := range steps {
		if s.Action == "" {
			return nil, fmt.Errorf("%w: step action is required", entities.ErrInvalidArgument)
		}
	}

	if _, err := u.repo.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}

	solution.EntryID = entryID
	res, err := u.repo.CreateSolution(ctx, solution, steps)
	if err != nil {
		return nil, err
	}
	u.log.Infow("solution create", "solution_id", res.ID, "entry_id", entryID)
	return res, nil
}

// Solution returns a solution with its steps.
func (u *Usecase) Solution(ctx context.Context, id uuid.UUID) (*entities.Solution, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetSolutionWithSteps(ctx, id)
}

// EntrySolutions returns all solutions of an entry.
func (u *Usecase) EntrySolutions(ctx context.Context, entryID uuid.UUID) ([]entities.Solution, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.repo.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}
	return u.repo.ListEntrySolutions(ctx, entryID)
}

// UpdateSolution edits solution fields.
func (u *Usecase) UpdateSolution(ctx context.Context, id uuid.UUID, patch entities.SolutionPatch) (*entities.Solution, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if patch.SolutionType != nil &&
		*patch.SolutionType != entities.SolutionWorkaround && *patch.SolutionType != entities.SolutionResolution {
		return nil, fmt.Errorf("%w: unknown solution type %q", entities.ErrInvalidArgument, *patch.SolutionType)
	}
	return u.repo.UpdateSolution(ctx, id, patch)
}

// DeleteSolution removes a solution with its steps.
func (u *Usecase) DeleteSolution(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.DeleteSolution(ctx, id)
}

// AddStep appends a step to a solution.
func (u *Usecase) AddStep(ctx context.Context, solutionID uuid.UUID, step entities.SolutionStep) (*entities.SolutionStep, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if step.Action == "" {
		return nil, fmt.Errorf("%w: action is required", entities.ErrInvalidArgument)
	}
	if step.OrderIndex < 0 {
		return nil, fmt.Errorf("%w: order_index must be non-negative", entities.ErrInvalidArgument)
	}
	return u.repo.AddStep(ctx, solutionID, step)
}

// UpdateStep edits a solution step.
func (u *Usecase) UpdateStep(ctx context.Context, stepID uuid.UUID, patch entities.SolutionStepPatch) (*entities.SolutionStep, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.UpdateStep(ctx, stepID, patch)
}

// DeleteStep removes a solution step.
func (u *Usecase) DeleteStep(ctx context.Context, stepID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.DeleteStep(ctx, stepID)
}
