package insight

import "strings"

// Score is the deterministic 0-100 property score with its category
// sub-scores. A nil sub-score means that category had no data and was
// excluded from the average rather than counted as zero.
type Score struct {
	Overall       float64  `json:"overall"`
	Soil          *float64 `json:"soil,omitempty"`
	Agricultural  *float64 `json:"agricultural,omitempty"`
	CropHistory   *float64 `json:"crop_history,omitempty"`
	Climate       *float64 `json:"climate,omitempty"`
	Indeterminate bool     `json:"indeterminate"`
}

// ComputeScore combines the available categories into an overall score.
// Pure function; identical input always yields an identical score.
// With no category data at all the result is Indeterminate, which is
// distinct from a legitimate score of zero.
func ComputeScore(d *PropertyData) Score {
	var s Score

	if d.Soil != nil {
		if fertility := d.Soil.DominantFertility(); fertility != "" {
			v := soilSubScore(fertility)
			s.Soil = &v
		}
	}
	if d.LandCover != nil {
		v := clamp(d.LandCover.AgriculturalPct, 0, 100)
		s.Agricultural = &v
	}
	if d.Crops != nil && len(d.Crops.Entries) > 0 {
		v := cropHistorySubScore(d.Crops.DistinctYears(), d.Crops.DistinctCrops())
		s.CropHistory = &v
	}
	if d.Climate != nil {
		v := climateSubScore(d.Climate.AnnualPrecipInches)
		s.Climate = &v
	}

	var sum float64
	var n int
	for _, sub := range []*float64{s.Soil, s.Agricultural, s.CropHistory, s.Climate} {
		if sub != nil {
			sum += *sub
			n++
		}
	}
	if n == 0 {
		s.Indeterminate = true
		return s
	}

	s.Overall = clamp(sum/float64(n), 0, 100)
	return s
}

// soilSubScore tiers the fertility descriptor by substring match.
func soilSubScore(fertility string) float64 {
	f := strings.ToLower(fertility)
	switch {
	case strings.Contains(f, "high") || strings.Contains(f, "prime"):
		return 90
	case strings.Contains(f, "good") || strings.Contains(f, "moderate"):
		return 75
	default:
		return 60
	}
}

// cropHistorySubScore rewards cultivation breadth and continuity.
func cropHistorySubScore(distinctYears, distinctCrops int) float64 {
	v := float64(distinctYears*10 + distinctCrops*5)
	if v > 100 {
		return 100
	}
	return v
}

// climateSubScore bands annual precipitation in inches. Bands are
// half-open: [20,40) scores 85, the remainder of [15,50) scores 70,
// anything else 55.
func climateSubScore(precipInches float64) float64 {
	switch {
	case precipInches >= 20 && precipInches < 40:
		return 85
	case precipInches >= 15 && precipInches < 50:
		return 70
	default:
		return 55
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
