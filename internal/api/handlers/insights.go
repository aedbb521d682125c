package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/birddog/teddy/internal/insight"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
	"github.com/birddog/teddy/pkg/redis"
)

// InsightService is what the handler needs from the insight pipeline.
type InsightService interface {
	GetPropertyInsights(ctx context.Context, parcelID string) (*insight.InsightResult, error)
}

// InsightHandler serves property insight requests with a cache in front
// of the pipeline.
type InsightHandler struct {
	service InsightService
	cache   *redis.Cache
	cfg     *config.Config
	logger  *logger.Logger
}

// NewInsightHandler creates the insight handler. The cache may be nil.
func NewInsightHandler(service InsightService, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *InsightHandler {
	return &InsightHandler{service: service, cache: cache, cfg: cfg, logger: log}
}

// GetPropertyInsights returns the assembled insight for a parcel.
// GET /api/insights/property/{parcelID}
func (h *InsightHandler) GetPropertyInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parcelID := mux.Vars(r)["parcelID"]
	if parcelID == "" {
		respondError(w, http.StatusBadRequest, "parcel ID is required")
		return
	}

	cacheKey := redis.InsightKey(parcelID)
	if h.cache != nil {
		var cached insight.InsightResult
		if found, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			respondJSON(w, http.StatusOK, &cached)
			return
		}
	}

	result, err := h.service.GetPropertyInsights(ctx, parcelID)
	if err != nil {
		switch {
		case errors.Is(err, insight.ErrNotFound):
			respondError(w, http.StatusNotFound, "Property not found")
		case errors.Is(err, insight.ErrDataUnavailable):
			respondError(w, http.StatusServiceUnavailable, "Property data temporarily unavailable")
		default:
			h.logger.WithError(err).Error("Insight pipeline failed")
			respondError(w, http.StatusInternalServerError, "Failed to generate property insights")
		}
		return
	}

	// Degraded results (no LLM analysis) are served but not cached,
	// so a later request can retry the analysis.
	if h.cache != nil && !result.AnalysisUnavailable {
		if err := h.cache.Set(ctx, cacheKey, result, h.cfg.Insight.CacheTTL); err != nil {
			h.logger.WithError(err).Debug("Insight cache write failed")
		}
	}

	respondJSON(w, http.StatusOK, result)
}
