package handlers_fiber

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorNotFound(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, entities.ErrEntryNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, models.CodeNotFound, body.Error.Code)
}

func TestWriteErrorWorkflowViolation(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, &entities.WorkflowError{
			Current: entities.StateRetired,
			Target:  entities.StatePublished,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, models.CodeWorkflowViolation, body.Error.Code)
	require.Contains(t, body.Error.Message, "retired")
}

func TestWriteErrorDecisionRace(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, fmt.Errorf("%w: review is already approved", entities.ErrReviewDecided))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, models.CodeConflict, body.Error.Code)
	require.Contains(t, body.Error.Message, "review is already approved")
}

func TestWriteErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   models.ErrorCode
	}{
		{name: "validation", err: entities.ErrInvalidArgument, status: http.StatusBadRequest, code: models.CodeValidation},
		{name: "not_participant", err: entities.ErrNotParticipant, status: http.StatusForbidden, code: models.CodeConflict},
		{name: "tag_exists", err: entities.ErrTagExists, status: http.StatusConflict, code: models.CodeConflict},
		{name: "entry_tagged", err: entities.ErrEntryTagged, status: http.StatusConflict, code: models.CodeConflict},
		{name: "review_not_found", err: entities.ErrReviewNotFound, status: http.StatusNotFound, code: models.CodeNotFound},
		{name: "internal", err: fmt.Errorf("boom"), status: http.StatusInternalServerError, code: models.CodeInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, tt.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestWriteErrorInternalHidesDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, fmt.Errorf("dial tcp 10.0.0.3:5432: connection refused"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "internal error", body.Error.Message)
}
