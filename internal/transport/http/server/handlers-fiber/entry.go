package handlers_fiber

import (
	"net/http"
	"strconv"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/mapper"
	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/models"

	"github.com/gofiber/fiber/v2"
)

// CreateEntry creates a new draft entry.
func (h *Handler) CreateEntry(c *fiber.Ctx) error {
	var body models.CreateEntryRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	entry := entities.Entry{
		Title:       body.Title,
		Description: body.Description,
		Severity:    entities.Severity(body.Severity),
		RootCause:   body.RootCause,
		Environment: body.Environment,
		CreatedBy:   actor(c),
	}

	res, err := h.uc.CreateEntry(c.Context(), entry, mapper.FromCreateSymptoms(body.Symptoms), mapper.FromLinkIncidents(body.Incidents))
	if err != nil {
		h.log.Errorw("failed to create entry", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelEntry(*res))
}

// GetEntry returns one entry with symptoms and incidents.
func (h *Handler) GetEntry(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	res, err := h.uc.Entry(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelEntry(*res))
}

// ListEntries returns a page of entry summaries.
func (h *Handler) ListEntries(c *fiber.Ctx) error {
	filter := entities.EntryFilter{
		Skip:  queryInt(c, "skip", 0),
		Limit: queryInt(c, "limit", 0),
	}
	if v := c.Query("workflow_state"); v != "" {
		state := entities.WorkflowState(v)
		filter.WorkflowState = &state
	}
	if v := c.Query("severity"); v != "" {
		severity := entities.Severity(v)
		filter.Severity = &severity
	}
	if v := c.Query("created_by"); v != "" {
		filter.CreatedBy = &v
	}

	page, err := h.uc.ListEntries(c.Context(), filter)
	if err != nil {
		h.log.Errorw("failed to list entries", "error", err.Error())
		return writeError(c, err)
	}

	resp := struct {
		Total int64                 `json:"total"`
		Skip  int                   `json:"skip"`
		Limit int                   `json:"limit"`
		Items []models.EntrySummary `json:"items"`
	}{
		Total: page.Total,
		Skip:  page.Skip,
		Limit: page.Limit,
		Items: mapper.ToModelEntrySummaryList(page.Items),
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// UpdateEntry patches entry content; only draft and in_review entries accept edits.
func (h *Handler) UpdateEntry(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.UpdateEntryRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	patch := entities.EntryPatch{
		Title:       body.Title,
		Description: body.Description,
		RootCause:   body.RootCause,
		Environment: body.Environment,
	}
	if body.Severity != nil {
		severity := entities.Severity(*body.Severity)
		patch.Severity = &severity
	}

	res, err := h.uc.UpdateEntry(c.Context(), id, patch)
	if err != nil {
		h.log.Errorw("failed to update entry", "entry_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelEntry(*res))
}

// AddSymptom appends a symptom to an entry.
func (h *Handler) AddSymptom(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.CreateSymptomRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.AddSymptom(c.Context(), id, entities.EntrySymptom{
		Description: body.Description,
		OrderIndex:  body.OrderIndex,
	})
	if err != nil {
		h.log.Errorw("failed to add symptom", "entry_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelSymptom(*res))
}

// LinkIncident links an external incident to an entry.
func (h *Handler) LinkIncident(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.LinkIncidentRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.AddIncident(c.Context(), id, entities.EntryIncident{
		IncidentID:     body.IncidentID,
		IncidentSource: body.IncidentSource,
	})
	if err != nil {
		h.log.Errorw("failed to link incident", "entry_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelIncident(*res))
}

// TransitionEntry applies an explicit workflow transition to an entry.
func (h *Handler) TransitionEntry(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.TransitionEntryRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.TransitionEntry(c.Context(), id, entities.WorkflowState(body.TargetState), actor(c), body.MergedIntoID)
	if err != nil {
		h.log.Errorw("failed to transition entry", "entry_id", id, "target", body.TargetState, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelEntry(*res))
}

// RetireEntry retires a published entry.
func (h *Handler) RetireEntry(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.uc.RetireEntry(c.Context(), id); err != nil {
		h.log.Errorw("failed to retire entry", "entry_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

func queryInt(c *fiber.Ctx, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
