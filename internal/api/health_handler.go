package api

import (
	"net/http"
)

// HealthHandler serves the health check
type HealthHandler struct {
	healthService HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// Check handles GET /v1/health. It always answers 200, the body tells
// which dependency is down.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.healthService.Check(r.Context()), http.StatusOK)
}
