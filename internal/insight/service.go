// Package insight implements the property-insight pipeline: concurrent
// warehouse fetches, numeric normalization, deterministic scoring, the
// bounded narrative summary and the LLM write-up.
package insight

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/birddog/teddy/internal/llm"
	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
)

// Warehouse is the read surface the orchestrator needs. The pgx-backed
// adapter satisfies it; tests substitute a fake.
type Warehouse interface {
	FetchParcelProfile(ctx context.Context, parcelID string) (*warehouse.ParcelProfile, error)
	FetchSoilProfile(ctx context.Context, parcelID string) ([]warehouse.SoilComponent, error)
	FetchCropHistory(ctx context.Context, parcelID string, years int) ([]warehouse.CropHistoryEntry, error)
	FetchLandCover(ctx context.Context, parcelID string) (*warehouse.LandCoverAnalysis, error)
	FetchClimate(ctx context.Context, parcelID string) (*warehouse.ClimateRecord, error)
	FetchSection180Estimate(ctx context.Context, parcelID string) (*warehouse.Section180Estimate, error)
	FetchTopography(ctx context.Context, parcelID string) (*warehouse.TopographyRecord, error)
}

// Service orchestrates the insight pipeline for one parcel at a time.
type Service struct {
	warehouse Warehouse
	provider  llm.Provider
	cfg       *config.Config
	logger    *logger.Logger
}

// NewService creates the insight orchestrator.
func NewService(wh Warehouse, provider llm.Provider, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		warehouse: wh,
		provider:  provider,
		cfg:       cfg,
		logger:    log,
	}
}

// fetchOutcome is one category's fan-out result.
type fetchOutcome struct {
	category string
	err      error
}

// GetPropertyInsights assembles the full insight for a parcel.
// Category fetches run concurrently; a failed or empty category never
// aborts the others. An LLM failure degrades the result instead of
// failing the request. ErrNotFound and ErrDataUnavailable are the only
// hard failures.
func (s *Service) GetPropertyInsights(ctx context.Context, parcelID string) (*InsightResult, error) {
	start := time.Now()
	data := &PropertyData{ParcelID: parcelID}

	outcomes := s.fetchAll(ctx, parcelID, data)

	var available, noData, failed int
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			available++
		case errors.Is(o.err, warehouse.ErrNoData):
			noData++
		default:
			failed++
			s.logger.WithFields(map[string]interface{}{
				"parcel_id": parcelID,
				"category":  o.category,
				"error":     o.err.Error(),
			}).Warn("Category fetch failed")
		}
	}

	if available == 0 {
		if failed > 0 {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, parcelID)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, parcelID)
	}

	score := ComputeScore(data)
	narrative := Summarize(data, s.cfg.Insight.NarrativeBudget)

	result := &InsightResult{
		ParcelID:    parcelID,
		Score:       score,
		DataSummary: narrative.Availability,
		GeneratedAt: time.Now().UTC(),
	}

	analysis, err := s.analyze(ctx, narrative.Text)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"parcel_id": parcelID,
			"provider":  s.provider.Name(),
			"error":     err.Error(),
		}).Warn("LLM analysis unavailable, returning degraded result")
		result.AnalysisUnavailable = true
	} else {
		result.Analysis = analysis
	}

	s.logger.WithFields(map[string]interface{}{
		"parcel_id":     parcelID,
		"categories":    available,
		"indeterminate": score.Indeterminate,
		"degraded":      result.AnalysisUnavailable,
		"duration":      time.Since(start),
	}).Info("Property insight assembled")

	return result, nil
}

// fetchAll fans out the seven category fetches and fills data in place.
// Each goroutine writes a distinct field, so no locking is needed on
// the data struct itself.
func (s *Service) fetchAll(ctx context.Context, parcelID string, data *PropertyData) []fetchOutcome {
	type fetch struct {
		category string
		run      func(context.Context) error
	}

	fetches := []fetch{
		{CategoryProfile, func(ctx context.Context) error {
			row, err := s.warehouse.FetchParcelProfile(ctx, parcelID)
			if err != nil {
				return err
			}
			data.Profile = convertProfile(row, s.logger)
			return nil
		}},
		{CategorySoil, func(ctx context.Context) error {
			rows, err := s.warehouse.FetchSoilProfile(ctx, parcelID)
			if err != nil {
				return err
			}
			data.Soil = convertSoil(rows, s.logger)
			return nil
		}},
		{CategoryCropHistory, func(ctx context.Context) error {
			rows, err := s.warehouse.FetchCropHistory(ctx, parcelID, s.cfg.Insight.CropHistoryYears)
			if err != nil {
				return err
			}
			data.Crops = convertCrops(rows)
			return nil
		}},
		{CategoryLandCover, func(ctx context.Context) error {
			row, err := s.warehouse.FetchLandCover(ctx, parcelID)
			if err != nil {
				return err
			}
			data.LandCover = convertLandCover(row, s.logger)
			return nil
		}},
		{CategoryClimate, func(ctx context.Context) error {
			row, err := s.warehouse.FetchClimate(ctx, parcelID)
			if err != nil {
				return err
			}
			data.Climate = convertClimate(row, s.logger)
			return nil
		}},
		{CategorySection180, func(ctx context.Context) error {
			row, err := s.warehouse.FetchSection180Estimate(ctx, parcelID)
			if err != nil {
				return err
			}
			data.Section180 = convertSection180(row, s.logger)
			return nil
		}},
		{CategoryTopography, func(ctx context.Context) error {
			row, err := s.warehouse.FetchTopography(ctx, parcelID)
			if err != nil {
				return err
			}
			data.Topography = convertTopography(row, s.logger)
			return nil
		}},
	}

	outcomes := make([]fetchOutcome, len(fetches))

	var wg sync.WaitGroup
	for i, f := range fetches {
		wg.Add(1)
		go func(i int, f fetch) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.Insight.FetchTimeout)
			defer cancel()
			outcomes[i] = fetchOutcome{category: f.category, err: f.run(fetchCtx)}
		}(i, f)
	}
	wg.Wait()

	return outcomes
}

// analyze invokes the LLM under its own timeout.
func (s *Service) analyze(ctx context.Context, summary string) (string, error) {
	llmCtx, cancel := context.WithTimeout(ctx, s.cfg.LLM.Timeout)
	defer cancel()

	return s.provider.Complete(llmCtx, llm.Request{
		System:      llm.AnalysisSystemPrompt,
		Prompt:      llm.BuildAnalysisPrompt(summary),
		MaxTokens:   s.cfg.LLM.MaxTokens,
		Temperature: s.cfg.LLM.Temperature,
	})
}
