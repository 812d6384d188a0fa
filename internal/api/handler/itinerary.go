package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/internal/api/response"
	"github.com/wayfarerhq/wayfarer/internal/trip"
)

// DefaultPageLimit is the page size used when the client does not ask
// for one.
const DefaultPageLimit = 50

// MaxPageLimit caps client-requested page sizes.
const MaxPageLimit = 100

// ItineraryHandler handles itinerary endpoints.
type ItineraryHandler struct {
	trips *trip.Service
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(trips *trip.Service) *ItineraryHandler {
	return &ItineraryHandler{trips: trips}
}

// ListItineraries handles GET /v1/me/itineraries.
func (h *ItineraryHandler) ListItineraries(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	limit := pageLimit(r)

	page, err := h.trips.List(r.Context(), userID, limit, pageCursor(r))
	if err != nil {
		response.InternalError(w, r, "failed to list itineraries")
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// CreateItinerary handles POST /v1/me/itineraries.
func (h *ItineraryHandler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.ItineraryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	it, err := h.trips.Create(r.Context(), userID, &input)
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/me/itineraries/"+it.ID, it)
}

// GetItinerary handles GET /v1/me/itineraries/{itineraryId}.
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itineraryID := chi.URLParam(r, "itineraryId")

	it, err := h.trips.Get(r.Context(), userID, itineraryID)
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, it)
}

// UpdateItinerary handles PUT /v1/me/itineraries/{itineraryId}.
func (h *ItineraryHandler) UpdateItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itineraryID := chi.URLParam(r, "itineraryId")

	var input models.ItineraryUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	it, err := h.trips.Update(r.Context(), userID, itineraryID, &input)
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, it)
}

// DeleteItinerary handles DELETE /v1/me/itineraries/{itineraryId}.
func (h *ItineraryHandler) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itineraryID := chi.URLParam(r, "itineraryId")

	if err := h.trips.Delete(r.Context(), userID, itineraryID); err != nil {
		writeTripError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// writeTripError maps trip service errors to problem responses.
func writeTripError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *trip.ValidationError
	var dateErr *trip.DateOutOfRangeError
	var collisionErr *trip.ScheduleCollisionError
	var dupErr *trip.DuplicateDayPlanError
	var otherErr *trip.OtherTypeNameError

	switch {
	case errors.Is(err, trip.ErrItineraryNotFound):
		response.NotFound(w, r, "itinerary not found")
	case errors.Is(err, trip.ErrNotAuthorized):
		response.NotFound(w, r, "itinerary not found")
	case errors.As(err, &verr):
		response.BadRequest(w, r, "validation error", verr.Errors)
	case errors.As(err, &dateErr):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.As(err, &collisionErr):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.As(err, &dupErr):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.As(err, &otherErr):
		response.BadRequest(w, r, err.Error(), nil)
	default:
		response.InternalError(w, r, "itinerary operation failed")
	}
}

// pageLimit parses the limit query parameter, clamped to MaxPageLimit.
func pageLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultPageLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// pageCursor returns the opaque cursor query parameter, empty when the
// client asks for the first page.
func pageCursor(r *http.Request) string {
	return r.URL.Query().Get("cursor")
}
