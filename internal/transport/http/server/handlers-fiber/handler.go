// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"github.com/Tahskajuha/KEDB-capstone/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the knowledge base API using service layer interfaces.
type Handler struct {
	log      *zap.SugaredLogger
	uc       usecase.InterfaceUsecase
	validate *validator.Validate
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase) *Handler {
	return &Handler{
		log:      log,
		uc:       usecase,
		validate: validator.New(),
	}
}

// Register attaches all API routes to the app.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/entries", h.CreateEntry)
	api.Get("/entries", h.ListEntries)
	api.Get("/entries/:id", h.GetEntry)
	api.Patch("/entries/:id", h.UpdateEntry)
	api.Post("/entries/:id/symptoms", h.AddSymptom)
	api.Post("/entries/:id/incidents", h.LinkIncident)
	api.Post("/entries/:id/transition", h.TransitionEntry)
	api.Post("/entries/:id/retire", h.RetireEntry)

	api.Post("/entries/:id/reviews", h.CreateReview)
	api.Get("/entries/:id/reviews", h.ListEntryReviews)
	api.Get("/reviews/:id", h.GetReview)
	api.Post("/reviews/:id/participants", h.AddParticipant)
	api.Post("/reviews/:id/decision", h.SubmitDecision)

	api.Post("/entries/:id/solutions", h.CreateSolution)
	api.Get("/entries/:id/solutions", h.ListEntrySolutions)
	api.Get("/solutions/:id", h.GetSolution)
	api.Patch("/solutions/:id", h.UpdateSolution)
	api.Delete("/solutions/:id", h.DeleteSolution)
	api.Post("/solutions/:id/steps", h.AddStep)
	api.Patch("/steps/:id", h.UpdateStep)
	api.Delete("/steps/:id", h.DeleteStep)

	api.Post("/tags", h.CreateTag)
	api.Get("/tags", h.ListTags)
	api.Get("/tags/:id", h.GetTag)
	api.Patch("/tags/:id", h.UpdateTag)
	api.Delete("/tags/:id", h.DeleteTag)
	api.Get("/entries/:id/tags", h.ListEntryTags)
	api.Post("/entries/:id/tags", h.TagEntry)
	api.Delete("/entries/:id/tags/:tagID", h.UntagEntry)
}
