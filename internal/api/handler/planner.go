package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/internal/api/response"
	"github.com/wayfarerhq/wayfarer/internal/featureflags"
	"github.com/wayfarerhq/wayfarer/internal/planner"
)

// PlannerHandler handles AI itinerary generation endpoints.
type PlannerHandler struct {
	service *planner.Service
	flags   *featureflags.Service
}

// NewPlannerHandler creates a new PlannerHandler. Flags may be nil.
func NewPlannerHandler(service *planner.Service, flags *featureflags.Service) *PlannerHandler {
	return &PlannerHandler{service: service, flags: flags}
}

// CreateGeneration handles POST /v1/planner/generations.
// Accepts the request, queues a generation job and returns 202 with a
// poll location.
func (h *PlannerHandler) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	if h.flags != nil && h.flags.IsAIGenerationDisabled(r.Context()) {
		response.ServiceUnavailable(w, r, "AI itinerary generation is temporarily unavailable")
		return
	}

	userID := GetUserID(r.Context())

	var req models.GenerationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	// Operators can lower the day cap below the model bound at runtime.
	if h.flags != nil {
		if maxDays := h.flags.MaxGenerationDays(r.Context(), planner.MaxDays); req.NumberOfDays > maxDays {
			response.BadRequest(w, r, "validation error", []models.FieldError{{
				Field:   "numberOfDays",
				Message: fmt.Sprintf("numberOfDays must be at most %d", maxDays),
			}})
			return
		}
	}

	gen, err := h.service.Start(r.Context(), userID, &req)
	if err != nil {
		var verr *planner.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation error", verr.Errors)
			return
		}
		response.InternalError(w, r, "failed to start generation")
		return
	}

	response.Accepted(w, r, "/v1/planner/generations/"+gen.ID, gen)
}

// GetGeneration handles GET /v1/planner/generations/{generationId}.
// Clients poll this until the status is READY or FAILED.
func (h *PlannerHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	generationID := chi.URLParam(r, "generationId")

	gen, err := h.service.Get(r.Context(), userID, generationID)
	if err != nil {
		if errors.Is(err, planner.ErrGenerationNotFound) {
			response.NotFound(w, r, "generation not found")
			return
		}
		response.InternalError(w, r, "failed to load generation")
		return
	}

	response.JSON(w, r, http.StatusOK, gen)
}
