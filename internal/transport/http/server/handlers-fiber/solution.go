package handlers_fiber

import (
	"net/http"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/mapper"
	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/models"

	"github.com/gofiber/fiber/v2"
)

// CreateSolution attaches a solution with optional steps to an entry.
func (h *Handler) CreateSolution(c *fiber.Ctx) error {
	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.CreateSolutionRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	solution := entities.Solution{
		Title:                body.Title,
		Description:          body.Description,
		SolutionType:         entities.SolutionType(body.SolutionType),
		EstimatedTimeMinutes: body.EstimatedTimeMinutes,
		CreatedBy:            actor(c),
	}

	res, err := h.uc.CreateSolution(c.Context(), entryID, solution, mapper.FromCreateSteps(body.Steps))
	if err != nil {
		h.log.Errorw("failed to create solution", "entry_id", entryID, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelSolution(*res))
}

// GetSolution returns one solution with its steps.
func (h *Handler) GetSolution(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	res, err := h.uc.Solution(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelSolution(*res))
}

// ListEntrySolutions returns all solutions of an entry.
func (h *Handler) ListEntrySolutions(c *fiber.Ctx) error {
	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	solutions, err := h.uc.EntrySolutions(c.Context(), entryID)
	if err != nil {
		return writeError(c, err)
	}

	resp := struct {
		EntryID   string            `json:"entry_id"`
		Solutions []models.Solution `json:"solutions"`
	}{
		EntryID:   entryID.String(),
		Solutions: mapper.ToModelSolutionList(solutions),
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// UpdateSolution patches solution fields.
func (h *Handler) UpdateSolution(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.UpdateSolutionRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	patch := entities.SolutionPatch{
		Title:                body.Title,
		Description:          body.Description,
		EstimatedTimeMinutes: body.EstimatedTimeMinutes,
	}
	if body.SolutionType != nil {
		st := entities.SolutionType(*body.SolutionType)
		patch.SolutionType = &st
	}

	res, err := h.uc.UpdateSolution(c.Context(), id, patch)
	if err != nil {
		h.log.Errorw("failed to update solution", "solution_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelSolution(*res))
}

// DeleteSolution removes a solution with its steps.
func (h *Handler) DeleteSolution(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.uc.DeleteSolution(c.Context(), id); err != nil {
		h.log.Errorw("failed to delete solution", "solution_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// AddStep appends a step to a solution.
func (h *Handler) AddStep(c *fiber.Ctx) error {
	solutionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.CreateStepRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.AddStep(c.Context(), solutionID, entities.SolutionStep{
		OrderIndex:      body.OrderIndex,
		Action:          body.Action,
		ExpectedResult:  body.ExpectedResult,
		Command:         body.Command,
		RollbackAction:  body.RollbackAction,
		RollbackCommand: body.RollbackCommand,
		StepMetadata:    body.StepMetadata,
	})
	if err != nil {
		h.log.Errorw("failed to add step", "solution_id", solutionID, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelStep(*res))
}

// UpdateStep patches a solution step.
func (h *Handler) UpdateStep(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.UpdateStepRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.UpdateStep(c.Context(), id, entities.SolutionStepPatch{
		OrderIndex:      body.OrderIndex,
		Action:          body.Action,
		ExpectedResult:  body.ExpectedResult,
		Command:         body.Command,
		RollbackAction:  body.RollbackAction,
		RollbackCommand: body.RollbackCommand,
		StepMetadata:    body.StepMetadata,
	})
	if err != nil {
		h.log.Errorw("failed to update step", "step_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelStep(*res))
}

// DeleteStep removes a solution step.
func (h *Handler) DeleteStep(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.uc.DeleteStep(c.Context(), id); err != nil {
		h.log.Errorw("failed to delete step", "step_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}
