package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/draftforge/content-platform/internal/core/ports"
)

// HealthHandler serves the service's own probes and the backend health proxy.
type HealthHandler struct {
	mongo   *mongo.Database
	redis   *redis.Client
	backend ports.GenerationBackend
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client, backend ports.GenerationBackend) *HealthHandler {
	return &HealthHandler{mongo: db, redis: rdb, backend: backend}
}

// Liveness handles GET /health — returns 200 immediately; confirms the
// process is alive.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready — checks MongoDB and Redis
// connectivity before declaring the service ready.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.mongo.Client().Ping(ctx, nil); err != nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

// Backend handles GET /health/backend — proxies the generation backend's own
// health report. An unreachable backend is reported as 503, not an error.
func (h *HealthHandler) Backend(c echo.Context) error {
	report, err := h.backend.Health(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unreachable",
		})
	}

	httpStatus := http.StatusOK
	if report.Status != "" && report.Status != "ok" && report.Status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	return c.JSON(httpStatus, report)
}
