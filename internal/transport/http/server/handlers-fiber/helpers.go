package handlers_fiber

import (
	"errors"
	"net/http"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// userHeader carries the acting user's identity for mutating requests.
const userHeader = "X-User-ID"

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := models.CodeInternal
	msg := err.Error()

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = models.CodeValidation
	case errors.Is(err, entities.ErrWorkflowViolation):
		status = http.StatusConflict
		code = models.CodeWorkflowViolation
	case errors.Is(err, entities.ErrReviewDecided):
		status = http.StatusConflict
		code = models.CodeConflict
	case errors.Is(err, entities.ErrNotParticipant):
		status = http.StatusForbidden
		code = models.CodeConflict
	case errors.Is(err, entities.ErrTagExists),
		errors.Is(err, entities.ErrEntryTagged):
		status = http.StatusConflict
		code = models.CodeConflict
	case errors.Is(err, entities.ErrEntryNotFound),
		errors.Is(err, entities.ErrReviewNotFound),
		errors.Is(err, entities.ErrParticipantNotFound),
		errors.Is(err, entities.ErrSolutionNotFound),
		errors.Is(err, entities.ErrStepNotFound),
		errors.Is(err, entities.ErrTagNotFound),
		errors.Is(err, entities.ErrEntryNotTagged):
		status = http.StatusNotFound
		code = models.CodeNotFound
	default:
		msg = "internal error"
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code models.ErrorCode, msg string) models.ErrorResponse {
	return models.ErrorResponse{Error: models.ErrorBody{Code: code, Message: msg}}
}

// parseBody decodes and validates a JSON body into dst. A false return means
// the response has already been written.
func (h *Handler) parseBody(c *fiber.Ctx, dst any) bool {
	if err := c.BodyParser(dst); err != nil {
		h.log.Errorw("failed to parse body", "error", err.Error())
		_ = c.Status(http.StatusBadRequest).JSON(errorResponse(models.CodeValidation, "invalid body"))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		_ = c.Status(http.StatusBadRequest).JSON(errorResponse(models.CodeValidation, err.Error()))
		return false
	}
	return true
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		_ = c.Status(http.StatusBadRequest).JSON(errorResponse(models.CodeValidation, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// actor returns the calling user from the X-User-ID header, empty when absent.
func actor(c *fiber.Ctx) string {
	return c.Get(userHeader)
}
