package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/wayfarerhq/wayfarer/internal/api/response"
	"github.com/wayfarerhq/wayfarer/internal/featureflags"
)

// FeatureFlagsHandler handles feature flag endpoints.
type FeatureFlagsHandler struct {
	service *featureflags.Service
}

// NewFeatureFlagsHandler creates a new FeatureFlagsHandler.
func NewFeatureFlagsHandler(service *featureflags.Service) *FeatureFlagsHandler {
	return &FeatureFlagsHandler{service: service}
}

// ListFeatureFlags handles GET /v1/admin/feature-flags - list all feature flags.
func (h *FeatureFlagsHandler) ListFeatureFlags(w http.ResponseWriter, r *http.Request) {
	flags := h.service.GetAllFlags(r.Context())

	list := featureflags.FlagList{Items: make([]featureflags.Flag, 0, len(flags))}
	for _, flag := range flags {
		list.Items = append(list.Items, *flag)
	}
	sort.Slice(list.Items, func(i, j int) bool {
		return list.Items[i].Key < list.Items[j].Key
	})

	response.JSON(w, r, http.StatusOK, list)
}

// UpsertFeatureFlags handles PUT /v1/admin/feature-flags - update feature flags.
func (h *FeatureFlagsHandler) UpsertFeatureFlags(w http.ResponseWriter, r *http.Request) {
	var req featureflags.FlagUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if len(req.Updates) == 0 {
		response.BadRequest(w, r, "at least one update is required", nil)
		return
	}

	flags := make([]*featureflags.Flag, len(req.Updates))
	for i, update := range req.Updates {
		if update.Key == "" {
			response.BadRequest(w, r, "flag key is required", nil)
			return
		}
		flags[i] = &featureflags.Flag{Key: update.Key, Value: update.Value}
	}

	if err := h.service.SetFlags(r.Context(), flags); err != nil {
		response.InternalError(w, r, "failed to update feature flags")
		return
	}

	response.NoContent(w, r)
}

// InvalidateCache handles POST /v1/admin/feature-flags/invalidate.
func (h *FeatureFlagsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	response.NoContent(w, r)
}
