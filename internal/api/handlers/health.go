package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/birddog/teddy/pkg/database"
	"github.com/birddog/teddy/pkg/logger"
	"github.com/birddog/teddy/pkg/redis"
)

// HealthHandler reports service and dependency health.
type HealthHandler struct {
	db     *database.DB
	redis  *redis.Client
	logger *logger.Logger
}

// NewHealthHandler creates the health handler. Either dependency may be
// nil, in which case it is reported as disabled.
func NewHealthHandler(db *database.DB, redisClient *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, logger: log}
}

// Health returns service, warehouse and redis status.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	warehouseStatus := "disabled"
	healthy := true
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.logger.WithError(err).Warn("Warehouse health check failed")
			warehouseStatus = "unhealthy"
			healthy = false
		} else {
			warehouseStatus = "healthy"
		}
	}

	redisStatus := "disabled"
	if h.redis != nil && h.redis.Enabled() {
		if err := h.redis.Redis().Ping(ctx).Err(); err != nil {
			h.logger.WithError(err).Warn("Redis health check failed")
			redisStatus = "unhealthy"
		} else {
			redisStatus = "healthy"
		}
	}

	code := http.StatusOK
	status := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		status = "degraded"
	}

	respondJSON(w, code, map[string]interface{}{
		"status":    status,
		"service":   "teddy-api",
		"warehouse": warehouseStatus,
		"redis":     redisStatus,
	})
}
