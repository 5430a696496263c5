package handlers_fiber

import (
	"net/http"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/mapper"
	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/models"

	"github.com/gofiber/fiber/v2"
)

// CreateReview opens a review against a draft entry and moves it to in_review.
func (h *Handler) CreateReview(c *fiber.Ctx) error {
	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.CreateReviewRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.CreateReview(c.Context(), entryID, body.RCAText, mapper.FromAddParticipants(body.Participants), actor(c))
	if err != nil {
		h.log.Errorw("failed to create review", "entry_id", entryID, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelReview(*res))
}

// GetReview returns one review with its participants.
func (h *Handler) GetReview(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	res, err := h.uc.Review(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelReview(*res))
}

// ListEntryReviews returns all reviews opened against an entry.
func (h *Handler) ListEntryReviews(c *fiber.Ctx) error {
	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	reviews, err := h.uc.EntryReviews(c.Context(), entryID)
	if err != nil {
		return writeError(c, err)
	}

	resp := struct {
		EntryID string          `json:"entry_id"`
		Reviews []models.Review `json:"reviews"`
	}{
		EntryID: entryID.String(),
		Reviews: mapper.ToModelReviewList(reviews),
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// AddParticipant attaches a user to a pending review.
func (h *Handler) AddParticipant(c *fiber.Ctx) error {
	reviewID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.AddParticipantRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.AddParticipant(c.Context(), reviewID, body.UserID, entities.ParticipantRole(body.Role))
	if err != nil {
		h.log.Errorw("failed to add participant", "review_id", reviewID, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToModelParticipant(*res))
}

// SubmitDecision records the review's decision on behalf of the calling
// participant and applies the resulting entry transition.
func (h *Handler) SubmitDecision(c *fiber.Ctx) error {
	reviewID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}
	var body models.DecisionRequest
	if !h.parseBody(c, &body) {
		return nil
	}

	res, err := h.uc.SubmitDecision(c.Context(), reviewID, entities.ReviewStatus(body.Status), body.Comment, actor(c))
	if err != nil {
		h.log.Errorw("failed to submit decision", "review_id", reviewID, "status", body.Status, "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToModelReview(*res))
}
