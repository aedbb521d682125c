package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/logger"
)

// PropertySearcher finds parcels by criteria.
type PropertySearcher interface {
	SearchByCriteria(ctx context.Context, criteria warehouse.SearchCriteria) ([]warehouse.PropertySummary, error)
}

// SearchHandler serves property search requests.
type SearchHandler struct {
	searcher PropertySearcher
	logger   *logger.Logger
}

// NewSearchHandler creates the search handler.
func NewSearchHandler(searcher PropertySearcher, log *logger.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: log}
}

// SearchProperties finds parcels matching query filters.
// GET /api/search/properties?min_acreage=&max_acreage=&county=&state=&limit=
func (h *SearchHandler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := warehouse.SearchCriteria{
		County: q.Get("county"),
		State:  q.Get("state"),
	}

	if v := q.Get("min_acreage"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			respondError(w, http.StatusBadRequest, "min_acreage must be a non-negative number")
			return
		}
		criteria.MinAcreage = &f
	}
	if v := q.Get("max_acreage"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			respondError(w, http.StatusBadRequest, "max_acreage must be a non-negative number")
			return
		}
		criteria.MaxAcreage = &f
	}
	if criteria.MinAcreage != nil && criteria.MaxAcreage != nil && *criteria.MinAcreage > *criteria.MaxAcreage {
		respondError(w, http.StatusBadRequest, "min_acreage cannot exceed max_acreage")
		return
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		criteria.Limit = n
	}

	results, err := h.searcher.SearchByCriteria(r.Context(), criteria)
	if err != nil {
		h.logger.WithError(err).Error("Property search failed")
		respondError(w, http.StatusInternalServerError, "Failed to search properties")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}
