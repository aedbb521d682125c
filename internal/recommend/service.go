// Package recommend generates crop recommendations for a parcel from
// its rotation history, regional crop performance and market baselines.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/birddog/teddy/internal/llm"
	"github.com/birddog/teddy/internal/numeric"
	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
)

// Warehouse is the read surface the recommender needs.
type Warehouse interface {
	FetchCropHistory(ctx context.Context, parcelID string, years int) ([]warehouse.CropHistoryEntry, error)
	RegionalCropStats(ctx context.Context, countyID, stateCode string, years int) ([]warehouse.RegionalCropStat, error)
}

// CropRecommendation is one scored crop suggestion.
type CropRecommendation struct {
	CropType              string                `json:"crop_type"`
	SuitabilityScore      float64               `json:"suitability_score"`
	ExpectedYield         string                `json:"expected_yield"`
	RevenuePotential      string                `json:"revenue_potential"`
	ConfidenceLevel       string                `json:"confidence_level"`
	PlantingWindow        PlantingWindow        `json:"planting_window"`
	Considerations        []string              `json:"considerations"`
	HistoricalPerformance HistoricalPerformance `json:"historical_performance"`
	RotationBenefits      []string              `json:"rotation_benefits"`
	MarketOutlook         string                `json:"market_outlook"`
}

// HistoricalPerformance summarizes how a crop performed on this parcel.
type HistoricalPerformance struct {
	YearsGrown      int    `json:"years_grown"`
	Frequency       int    `json:"frequency"`
	LastGrown       int    `json:"last_grown,omitempty"`
	ScoreAdjustment int    `json:"score_adjustment"`
	Notes           string `json:"notes"`
}

// Result is the full recommendation payload for a parcel.
type Result struct {
	ParcelID        string               `json:"parcel_id"`
	Recommendations []CropRecommendation `json:"recommendations"`
	Rotation        RotationAnalysis     `json:"rotation_analysis"`
	GeneratedAt     time.Time            `json:"generated_at"`
}

// regionalStat is the normalized regional performance for one crop.
type regionalStat struct {
	Frequency     int
	AvgRotation   float64
	UniqueParcels int
	YearsGrown    int
	Popularity    float64 // frequency per unique parcel
}

// Service generates recommendations.
type Service struct {
	warehouse Warehouse
	provider  llm.Provider
	cfg       *config.Config
	logger    *logger.Logger
}

// NewService creates the recommendation service. The provider may be
// nil; AI enhancement is then skipped.
func NewService(wh Warehouse, provider llm.Provider, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{warehouse: wh, provider: provider, cfg: cfg, logger: log}
}

// Generate produces scored recommendations for the four major crops,
// best first. County and state may be empty; they are then taken from
// the parcel's own history.
func (s *Service) Generate(ctx context.Context, parcelID, countyID, stateCode string) (*Result, error) {
	currentYear := time.Now().Year()

	rows, err := s.warehouse.FetchCropHistory(ctx, parcelID, s.cfg.Insight.CropHistoryYears)
	if err != nil && !errors.Is(err, warehouse.ErrNoData) {
		return nil, fmt.Errorf("recommend: crop history: %w", err)
	}

	history := make([]cropSeason, 0, len(rows))
	for _, r := range rows {
		history = append(history, cropSeason{Year: r.CropYear, CropType: r.CropType, Sequence: r.RotationSequence})
		if countyID == "" {
			countyID = r.CountyID.String
		}
		if stateCode == "" {
			stateCode = r.StateCode.String
		}
	}

	regional := s.fetchRegional(ctx, countyID, stateCode)
	rotation := analyzeRotationPatterns(history)

	recommendations := make([]CropRecommendation, 0, len(cropTypes))
	for _, crop := range cropTypes {
		recommendations = append(recommendations, buildRecommendation(crop, history, regional, currentYear))
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].SuitabilityScore > recommendations[j].SuitabilityScore
	})

	return &Result{
		ParcelID:        parcelID,
		Recommendations: recommendations,
		Rotation:        rotation,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func (s *Service) fetchRegional(ctx context.Context, countyID, stateCode string) map[string]regionalStat {
	if countyID == "" || stateCode == "" {
		return nil
	}
	stats, err := s.warehouse.RegionalCropStats(ctx, countyID, stateCode, 3)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"county_id":  countyID,
			"state_code": stateCode,
			"error":      err.Error(),
		}).Warn("Regional crop stats unavailable")
		return nil
	}

	regional := make(map[string]regionalStat, len(stats))
	for _, st := range stats {
		parcels := st.UniqueParcels
		if parcels < 1 {
			parcels = 1
		}
		regional[strings.ToLower(st.CropType)] = regionalStat{
			Frequency:     st.Frequency,
			AvgRotation:   numeric.FloatOr(st.AvgRotation, 0),
			UniqueParcels: st.UniqueParcels,
			YearsGrown:    st.YearsGrown,
			Popularity:    float64(st.Frequency) / float64(parcels),
		}
	}
	return regional
}

// buildRecommendation scores one crop from a base of 50 adjusted by
// historical, regional, rotation and market factors.
func buildRecommendation(cropType string, history []cropSeason, regional map[string]regionalStat, currentYear int) CropRecommendation {
	score := 50.0

	hist := analyzeHistoricalPerformance(cropType, history, currentYear)
	score += float64(hist.ScoreAdjustment)

	if r, ok := regional[cropType]; ok {
		factor := r.Popularity * 2
		if factor > 20 {
			factor = 20
		}
		score += factor
	}

	score += float64(rotationBenefitFactor(cropType, history))
	score += float64(marketFactor(cropType))

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	considerations := append([]string(nil), cropConsiderations[cropType]...)
	if len(considerations) == 0 {
		considerations = []string{"Consult local agricultural extension office"}
	}
	if cropInRecent(cropType, history, 2) {
		considerations = append(considerations, "Consider rotation to break pest and disease cycles")
	}

	window, ok := plantingWindows[cropType]
	if !ok {
		window = PlantingWindow{Start: "Consult local extension", End: "office"}
	}

	return CropRecommendation{
		CropType:              titleCase(cropType),
		SuitabilityScore:      score,
		ExpectedYield:         valueOr(baseYields, cropType, "Data not available"),
		RevenuePotential:      valueOr(baseRevenue, cropType, "Data not available"),
		ConfidenceLevel:       confidenceLevel(cropType, len(history), regional),
		PlantingWindow:        window,
		Considerations:        considerations,
		HistoricalPerformance: hist,
		RotationBenefits:      rotationBenefitTexts(cropType),
		MarketOutlook:         marketOutlookText(cropType),
	}
}

func analyzeHistoricalPerformance(cropType string, history []cropSeason, currentYear int) HistoricalPerformance {
	var occurrences []cropSeason
	for _, h := range history {
		if strings.EqualFold(h.CropType, cropType) {
			occurrences = append(occurrences, h)
		}
	}
	if len(occurrences) == 0 {
		return HistoricalPerformance{Notes: "No historical data available"}
	}

	years := make(map[int]struct{})
	lastGrown := 0
	for _, o := range occurrences {
		years[o.Year] = struct{}{}
		if o.Year > lastGrown {
			lastGrown = o.Year
		}
	}
	yearsGrown := len(years)
	frequency := len(occurrences)

	adjustment := yearsGrown * 3
	if adjustment > 15 {
		adjustment = 15
	}
	if frequency > yearsGrown*2 {
		adjustment -= 10
	}
	if lastGrown >= currentYear-2 {
		adjustment += 5
	}

	return HistoricalPerformance{
		YearsGrown:      yearsGrown,
		Frequency:       frequency,
		LastGrown:       lastGrown,
		ScoreAdjustment: adjustment,
		Notes:           fmt.Sprintf("Grown %d years, %d times total", yearsGrown, frequency),
	}
}

// rotationBenefitFactor checks the three most recent seasons. A
// beneficial predecessor earns a large bonus; replanting the same crop
// earns a penalty; anything else a small diversity bonus.
func rotationBenefitFactor(cropType string, history []cropSeason) int {
	if len(history) == 0 {
		return 0
	}
	kb, ok := rotationKnowledge[cropType]
	if !ok {
		return 0
	}

	limit := 3
	if len(history) < limit {
		limit = len(history)
	}
	recent := make([]string, 0, limit)
	for _, h := range history[:limit] {
		recent = append(recent, strings.ToLower(h.CropType))
	}

	for _, r := range recent {
		if contains(kb.After, r) {
			return 15
		}
	}
	if contains(recent, cropType) {
		return -10
	}
	return 5
}

func marketFactor(cropType string) int {
	md, ok := marketOutlook[cropType]
	if !ok {
		return 5 // stable outlook, moderate demand
	}

	score := 0
	switch md.Outlook {
	case "very_positive":
		score += 15
	case "positive":
		score += 10
	case "stable":
		score += 5
	case "cautious":
		score -= 5
	}
	switch md.Demand {
	case "very_high":
		score += 10
	case "high":
		score += 5
	case "moderate":
	default:
		score -= 5
	}
	return score
}

func confidenceLevel(cropType string, historyLen int, regional map[string]regionalStat) string {
	confidence := 50.0
	if historyLen > 0 {
		bonus := float64(historyLen * 2)
		if bonus > 25 {
			bonus = 25
		}
		confidence += bonus
	}
	if r, ok := regional[cropType]; ok {
		bonus := float64(r.Frequency) / 10
		if bonus > 15 {
			bonus = 15
		}
		confidence += bonus
	}

	switch {
	case confidence >= 80:
		return "High"
	case confidence >= 60:
		return "Medium"
	default:
		return "Low"
	}
}

func marketOutlookText(cropType string) string {
	if md, ok := marketOutlook[cropType]; ok {
		return md.Outlook
	}
	return "stable"
}

func cropInRecent(cropType string, history []cropSeason, n int) bool {
	if len(history) < n {
		n = len(history)
	}
	for _, h := range history[:n] {
		if strings.EqualFold(h.CropType, cropType) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func valueOr(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// Enhance asks the LLM for a narrative assessment of the top
// recommendations. Failures degrade to the baseline text.
func (s *Service) Enhance(ctx context.Context, result *Result) string {
	if s.provider == nil || len(result.Recommendations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Parcel ID: %s\n\nCrop Recommendations Analysis:\n", result.ParcelID))
	top := result.Recommendations
	if len(top) > 3 {
		top = top[:3]
	}
	for i, rec := range top {
		sb.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, rec.CropType))
		sb.WriteString(fmt.Sprintf("   Suitability Score: %.0f/100\n", rec.SuitabilityScore))
		sb.WriteString(fmt.Sprintf("   Expected Yield: %s\n", rec.ExpectedYield))
		sb.WriteString(fmt.Sprintf("   Revenue Potential: %s\n", rec.RevenuePotential))
		sb.WriteString(fmt.Sprintf("   Market Outlook: %s\n", rec.MarketOutlook))
		sb.WriteString(fmt.Sprintf("   Confidence: %s\n", rec.ConfidenceLevel))
	}
	sb.WriteString("\nSummarize the top recommendation and why it is the best choice, ")
	sb.WriteString("the key factors behind the scores, the main risks and mitigations, ")
	sb.WriteString("and a long-term rotation strategy. Be concise and practical.")

	llmCtx, cancel := context.WithTimeout(ctx, s.cfg.LLM.Timeout)
	defer cancel()

	analysis, err := s.provider.Complete(llmCtx, llm.Request{
		System:      llm.AnalysisSystemPrompt,
		Prompt:      sb.String(),
		MaxTokens:   s.cfg.LLM.MaxTokens,
		Temperature: s.cfg.LLM.Temperature,
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"parcel_id": result.ParcelID,
			"error":     err.Error(),
		}).Warn("AI enhancement unavailable")
		return ""
	}
	return analysis
}
