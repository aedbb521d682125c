package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/birddog/teddy/internal/recommend"
	"github.com/birddog/teddy/pkg/logger"
	"github.com/birddog/teddy/pkg/redis"
)

// Recommender generates crop recommendations.
type Recommender interface {
	Generate(ctx context.Context, parcelID, countyID, stateCode string) (*recommend.Result, error)
	Enhance(ctx context.Context, result *recommend.Result) string
}

// RecommendHandler serves crop recommendation requests.
type RecommendHandler struct {
	recommender Recommender
	cache       *redis.Cache
	logger      *logger.Logger
}

// NewRecommendHandler creates the recommendation handler.
func NewRecommendHandler(recommender Recommender, cache *redis.Cache, log *logger.Logger) *RecommendHandler {
	return &RecommendHandler{recommender: recommender, cache: cache, logger: log}
}

type recommendationResponse struct {
	*recommend.Result
	AIAnalysis string `json:"ai_analysis,omitempty"`
}

// GetCropRecommendations returns scored crop suggestions for a parcel.
// GET /api/recommendations/crops/{parcelID}?county=&state=&enhance=true
func (h *RecommendHandler) GetCropRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parcelID := mux.Vars(r)["parcelID"]
	if parcelID == "" {
		respondError(w, http.StatusBadRequest, "parcel ID is required")
		return
	}

	q := r.URL.Query()
	result, err := h.recommender.Generate(ctx, parcelID, q.Get("county"), q.Get("state"))
	if err != nil {
		h.logger.WithError(err).Error("Crop recommendation failed")
		respondError(w, http.StatusInternalServerError, "Failed to generate crop recommendations")
		return
	}

	resp := recommendationResponse{Result: result}
	if q.Get("enhance") == "true" {
		resp.AIAnalysis = h.recommender.Enhance(ctx, result)
	}

	respondJSON(w, http.StatusOK, resp)
}
