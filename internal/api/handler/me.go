package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/internal/api/response"
	"github.com/wayfarerhq/wayfarer/internal/user"
)

// MeHandler handles user profile endpoints.
type MeHandler struct {
	userService *user.Service
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(userService *user.Service) *MeHandler {
	return &MeHandler{userService: userService}
}

// GetMe handles GET /v1/me - get the authenticated user's profile.
func (h *MeHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	me, err := h.userService.GetMe(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load profile")
		return
	}

	response.JSON(w, r, http.StatusOK, me)
}

// UpdateMe handles PUT /v1/me - update the authenticated user's profile.
func (h *MeHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.MeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	me, err := h.userService.UpdateMe(r.Context(), userID, &input)
	if err != nil {
		var verr *user.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation error", verr.Errors)
			return
		}
		response.InternalError(w, r, "failed to update profile")
		return
	}

	response.JSON(w, r, http.StatusOK, me)
}
