package recommend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
)

type fakeWarehouse struct {
	history    []warehouse.CropHistoryEntry
	historyErr error
	regional   []warehouse.RegionalCropStat
}

func (f *fakeWarehouse) FetchCropHistory(ctx context.Context, parcelID string, years int) ([]warehouse.CropHistoryEntry, error) {
	return f.history, f.historyErr
}

func (f *fakeWarehouse) RegionalCropStats(ctx context.Context, countyID, stateCode string, years int) ([]warehouse.RegionalCropStat, error) {
	return f.regional, nil
}

func testService(wh Warehouse) *Service {
	cfg := &config.Config{}
	cfg.Insight.CropHistoryYears = 5
	cfg.LLM.Timeout = time.Second
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	return NewService(wh, nil, cfg, log)
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func TestAnalyzeRotationPatternsGroupsByYear(t *testing.T) {
	history := []cropSeason{
		{Year: 2023, CropType: "Corn", Sequence: 1},
		{Year: 2023, CropType: "Wheat", Sequence: 2},
		{Year: 2024, CropType: "Soybeans", Sequence: 1},
	}

	a := analyzeRotationPatterns(history)
	require.Len(t, a.Patterns, 2)
	assert.Equal(t, 2023, a.Patterns[0].Year)
	assert.Equal(t, []string{"corn", "wheat"}, a.Patterns[0].Sequence)
	assert.Equal(t, []string{"soybeans"}, a.Patterns[1].Sequence)
}

func TestEvaluateRotationQualityMonoculture(t *testing.T) {
	patterns := []YearPattern{
		{Year: 2022, Sequence: []string{"corn"}},
		{Year: 2023, Sequence: []string{"corn"}},
		{Year: 2024, Sequence: []string{"corn"}},
	}

	q := evaluateRotationQuality(patterns)
	// 50 - 20*3, clamped at zero
	assert.Equal(t, 0, q.Score)
	assert.Len(t, q.Issues, 3)
}

func TestEvaluateRotationQualityBeneficialSuccession(t *testing.T) {
	patterns := []YearPattern{
		{Year: 2023, Sequence: []string{"soybeans", "wheat"}},
		{Year: 2024, Sequence: []string{"corn", "soybeans"}},
	}

	q := evaluateRotationQuality(patterns)
	// Diversity in both years, plus soybeans->corn, wheat->corn,
	// wheat->soybeans rotation bonuses.
	assert.Equal(t, 100, q.Score)
	assert.Empty(t, q.Issues)
	assert.NotEmpty(t, q.Benefits)
}

func TestRotationRecommendationsSuggestSuccessors(t *testing.T) {
	patterns := []YearPattern{{Year: 2024, Sequence: []string{"corn"}}}

	recs := rotationRecommendations(patterns)
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "soybeans")
	// Soybeans never grown, diversity below three crops
	assert.Contains(t, recs, "Consider adding soybeans for nitrogen fixation")
	assert.Contains(t, recs, "Increase crop diversity to improve soil health and pest management")
}

func TestHistoricalPerformanceAdjustments(t *testing.T) {
	year := 2026

	t.Run("no history", func(t *testing.T) {
		h := analyzeHistoricalPerformance("corn", nil, year)
		assert.Equal(t, 0, h.ScoreAdjustment)
		assert.Equal(t, "No historical data available", h.Notes)
	})

	t.Run("recent diverse growing", func(t *testing.T) {
		history := []cropSeason{
			{Year: 2025, CropType: "Corn"},
			{Year: 2023, CropType: "Corn"},
		}
		h := analyzeHistoricalPerformance("corn", history, year)
		// 2 years * 3, plus recent-success bonus
		assert.Equal(t, 11, h.ScoreAdjustment)
		assert.Equal(t, 2025, h.LastGrown)
	})

	t.Run("heavy replanting penalized", func(t *testing.T) {
		history := []cropSeason{
			{Year: 2025, CropType: "Corn", Sequence: 1},
			{Year: 2025, CropType: "Corn", Sequence: 2},
			{Year: 2025, CropType: "Corn", Sequence: 3},
		}
		h := analyzeHistoricalPerformance("corn", history, year)
		// 1 year * 3, -10 replant penalty, +5 recent
		assert.Equal(t, -2, h.ScoreAdjustment)
	})
}

func TestRotationBenefitFactor(t *testing.T) {
	// Corn after soybeans is a beneficial rotation
	history := []cropSeason{{Year: 2024, CropType: "Soybeans"}}
	assert.Equal(t, 15, rotationBenefitFactor("corn", history))

	// Replanting wheat right after wheat
	history = []cropSeason{{Year: 2024, CropType: "Wheat"}}
	assert.Equal(t, -10, rotationBenefitFactor("wheat", history))

	// Cotton after soybeans is neither beneficial nor a replant
	assert.Equal(t, 5, rotationBenefitFactor("cotton", []cropSeason{{Year: 2024, CropType: "Soybeans"}}))

	assert.Equal(t, 0, rotationBenefitFactor("corn", nil))
}

func TestMarketFactor(t *testing.T) {
	assert.Equal(t, 25, marketFactor("soybeans")) // very_positive + very_high
	assert.Equal(t, 15, marketFactor("corn"))     // positive + high
	assert.Equal(t, 5, marketFactor("wheat"))     // stable + moderate
	assert.Equal(t, -5, marketFactor("cotton"))   // cautious + moderate
}

func TestGenerateOrdersBySuitability(t *testing.T) {
	wh := &fakeWarehouse{
		history: []warehouse.CropHistoryEntry{
			{CropYear: 2024, CropType: "Soybeans", RotationSequence: 1, CountyID: text("48453"), StateCode: text("TX")},
			{CropYear: 2023, CropType: "Corn", RotationSequence: 1, CountyID: text("48453"), StateCode: text("TX")},
		},
		regional: []warehouse.RegionalCropStat{
			{CropType: "Corn", Frequency: 120, UniqueParcels: 40, YearsGrown: 3},
		},
	}

	result, err := testService(wh).Generate(context.Background(), "48453-001", "", "")
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 4)
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t,
			result.Recommendations[i-1].SuitabilityScore,
			result.Recommendations[i].SuitabilityScore)
	}
	for _, rec := range result.Recommendations {
		assert.GreaterOrEqual(t, rec.SuitabilityScore, 0.0)
		assert.LessOrEqual(t, rec.SuitabilityScore, 100.0)
		assert.NotEmpty(t, rec.PlantingWindow.Start)
		assert.NotEmpty(t, rec.Considerations)
	}
}

func TestGenerateWithoutHistory(t *testing.T) {
	wh := &fakeWarehouse{
		historyErr: fmt.Errorf("crop_history X: %w", warehouse.ErrNoData),
	}

	result, err := testService(wh).Generate(context.Background(), "no-history", "", "")
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 4)
	assert.Contains(t, result.Rotation.Recommendations[0], "rotation plan")
	for _, rec := range result.Recommendations {
		assert.Equal(t, "Low", rec.ConfidenceLevel)
	}
}

func TestConfidenceLevels(t *testing.T) {
	regional := map[string]regionalStat{
		"corn": {Frequency: 200},
	}
	assert.Equal(t, "High", confidenceLevel("corn", 10, regional))
	assert.Equal(t, "Medium", confidenceLevel("wheat", 10, nil))
	assert.Equal(t, "Low", confidenceLevel("cotton", 0, nil))
}
