package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/internal/api/response"
	"github.com/wayfarerhq/wayfarer/internal/journal"
)

// JournalHandler handles travel journal endpoints.
type JournalHandler struct {
	journals *journal.Service
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journals *journal.Service) *JournalHandler {
	return &JournalHandler{journals: journals}
}

// ListJournals handles GET /v1/me/journals.
func (h *JournalHandler) ListJournals(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	limit := pageLimit(r)

	page, err := h.journals.List(r.Context(), userID, limit, pageCursor(r))
	if err != nil {
		response.InternalError(w, r, "failed to list journals")
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// CreateJournal handles POST /v1/me/journals.
func (h *JournalHandler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.JournalCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	j, err := h.journals.Create(r.Context(), userID, &input)
	if err != nil {
		writeJournalError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/me/journals/"+j.ID, j)
}

// GetJournal handles GET /v1/me/journals/{journalId}.
func (h *JournalHandler) GetJournal(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	journalID := chi.URLParam(r, "journalId")

	j, err := h.journals.Get(r.Context(), userID, journalID)
	if err != nil {
		writeJournalError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, j)
}

// UpdateJournal handles PUT /v1/me/journals/{journalId}.
func (h *JournalHandler) UpdateJournal(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	journalID := chi.URLParam(r, "journalId")

	var input models.JournalUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	j, err := h.journals.Update(r.Context(), userID, journalID, &input)
	if err != nil {
		writeJournalError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, j)
}

// DeleteJournal handles DELETE /v1/me/journals/{journalId}.
func (h *JournalHandler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	journalID := chi.URLParam(r, "journalId")

	if err := h.journals.Delete(r.Context(), userID, journalID); err != nil {
		writeJournalError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// writeJournalError maps journal service errors to problem responses.
func writeJournalError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *journal.ValidationError

	switch {
	case errors.Is(err, journal.ErrJournalNotFound):
		response.NotFound(w, r, "journal not found")
	case errors.As(err, &verr):
		response.BadRequest(w, r, "validation error", verr.Errors)
	default:
		response.InternalError(w, r, "journal operation failed")
	}
}
