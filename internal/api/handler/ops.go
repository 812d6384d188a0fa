// Package handler provides HTTP handlers for the Wayfarer API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/internal/api/response"
	"github.com/wayfarerhq/wayfarer/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	pool      *pgxpool.Pool
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. The pool and registry are
// optional; when nil the corresponding checks are skipped.
func NewOpsHandler(version, buildTime string, pool *pgxpool.Pool, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		pool:      pool,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Fails when the database is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       now,
		Subsystems: []models.SubsystemStatus{},
		Providers:  []models.ProviderStatus{},
	}

	if h.pool != nil {
		dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if err := h.pool.Ping(ctx); err != nil {
			detail := err.Error()
			dbStatus.Status = models.HealthStatusFail
			dbStatus.Detail = &detail
			status.Status = models.HealthStatusDegraded
		}
		cancel()
		status.Subsystems = append(status.Subsystems, dbStatus)
	}

	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			provider := models.ProviderStatus{
				Provider: ph.Name,
				Status:   models.HealthStatusOK,
			}
			if ph.LastSuccessAt != nil {
				t := models.Timestamp(*ph.LastSuccessAt)
				provider.LastSuccessAt = &t
			}
			if ph.LastFailureAt != nil {
				t := models.Timestamp(*ph.LastFailureAt)
				provider.LastFailureAt = &t
			}
			if ph.LastError != "" {
				msg := ph.LastError
				provider.Message = &msg
			}
			switch {
			case ph.IsUnhealthy():
				provider.Status = models.HealthStatusFail
				status.Status = models.HealthStatusDegraded
			case ph.IsDegraded():
				provider.Status = models.HealthStatusDegraded
				status.Status = models.HealthStatusDegraded
			}
			status.Providers = append(status.Providers, provider)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
