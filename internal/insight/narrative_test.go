package insight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPropertyData() *PropertyData {
	return &PropertyData{
		ParcelID: "48453-001",
		Profile: &ProfileData{
			Address:          "4500 Ranch Road 12",
			City:             "Dripping Springs",
			StateCode:        "TX",
			CountyID:         "48453",
			Acres:            160.5,
			OwnerName:        "Blanco Creek Holdings LLC",
			TotalValue:       1250000,
			LandValue:        980000,
			ImprovementValue: 270000,
			UseDesc:          "Agricultural",
		},
		Soil: &SoilData{Components: []SoilComponentData{
			{SoilSeries: "Houston Black", FertilityClass: "High fertility", ComponentPercentage: 62, PH: 7.8, OrganicMatterPct: 3.2, DrainageClass: "Well drained"},
			{SoilSeries: "Heiden clay", FertilityClass: "Moderate", ComponentPercentage: 38, PH: 7.5},
		}},
		Crops: &CropData{Entries: []CropEntryData{
			{Year: 2024, CropType: "Corn"},
			{Year: 2023, CropType: "Soybeans"},
			{Year: 2022, CropType: "Corn"},
		}},
		LandCover: &LandCoverData{
			AgriculturalPct:   78.4,
			ForestPct:         12.1,
			DevelopedPct:      3.5,
			DominantCoverType: "Cultivated Crops",
			DominantCoverPct:  64.2,
			DominantCrop:      "Corn",
		},
		Climate: &ClimateData{
			AnnualPrecipInches: 34.2,
			GrowingDegreeDays:  4100,
			AvgTemperatureF:    67.3,
		},
		Section180: &Section180Data{TotalDeduction: 184500, ConfidenceScore: 82},
		Topography: &TopographyData{MeanElevationFt: 1150, SlopePercent: 2.4},
	}
}

func TestSummarizeCoversAllSections(t *testing.T) {
	d := fullPropertyData()
	n := Summarize(d, 6000)

	assert.Contains(t, n.Text, "PROPERTY IDENTITY:")
	assert.Contains(t, n.Text, "48453-001")
	assert.Contains(t, n.Text, "VALUATION:")
	assert.Contains(t, n.Text, "SOIL COMPOSITION:")
	assert.Contains(t, n.Text, "Houston Black")
	assert.Contains(t, n.Text, "CROP HISTORY:")
	assert.Contains(t, n.Text, "CLIMATE:")
	assert.Contains(t, n.Text, "LAND COVER:")
	assert.Contains(t, n.Text, "SECTION 180 TAX ESTIMATE:")

	for _, cat := range []string{CategoryProfile, CategorySoil, CategoryCropHistory, CategoryLandCover, CategoryClimate, CategorySection180} {
		assert.True(t, n.Availability[cat], "category %s should be available", cat)
	}
}

func TestSummarizeFormatsCurrencyWithoutCents(t *testing.T) {
	n := Summarize(fullPropertyData(), 6000)

	assert.Contains(t, n.Text, "$1,250,000")
	assert.Contains(t, n.Text, "$980,000")
	assert.Contains(t, n.Text, "$270,000")
	assert.NotContains(t, n.Text, "1.25e")
	assert.NotContains(t, n.Text, "$1250000")
}

func TestSummarizeOmitsMissingSections(t *testing.T) {
	d := &PropertyData{
		ParcelID: "MO-77",
		Climate:  &ClimateData{AnnualPrecipInches: 40},
	}
	n := Summarize(d, 6000)

	assert.Contains(t, n.Text, "CLIMATE:")
	assert.NotContains(t, n.Text, "VALUATION:")
	assert.NotContains(t, n.Text, "SOIL COMPOSITION:")
	assert.NotContains(t, n.Text, "N/A")

	assert.False(t, n.Availability[CategoryProfile])
	assert.False(t, n.Availability[CategorySoil])
	assert.True(t, n.Availability[CategoryClimate])
}

func TestSummarizeHonorsBudget(t *testing.T) {
	d := fullPropertyData()

	full := Summarize(d, 100000)
	for _, budget := range []int{len(full.Text), 500, 300, 120, 40} {
		n := Summarize(d, budget)
		assert.LessOrEqual(t, len(n.Text), budget, "budget=%d", budget)
	}
}

func TestSummarizeTruncatesLowestPriorityFirst(t *testing.T) {
	d := fullPropertyData()
	full := Summarize(d, 100000)

	// A budget just below the full length drops the tail section first
	// while identity and valuation survive.
	n := Summarize(d, len(full.Text)-1)
	assert.Contains(t, n.Text, "PROPERTY IDENTITY:")
	assert.Contains(t, n.Text, "VALUATION:")
	assert.NotContains(t, n.Text, "TOPOGRAPHY:")

	// Tight budgets keep the highest-priority section longest.
	tight := Summarize(d, 220)
	assert.Contains(t, tight.Text, "PROPERTY IDENTITY:")
	assert.NotContains(t, tight.Text, "LAND COVER:")

	// Truncation never changes the availability map.
	assert.Equal(t, full.Availability, n.Availability)
}

func TestSummarizeNeverCutsMidSentence(t *testing.T) {
	d := fullPropertyData()
	full := Summarize(d, 100000)

	for budget := 40; budget < len(full.Text); budget += 97 {
		n := Summarize(d, budget)
		if n.Text == "" {
			continue
		}
		// Every emitted section is byte-identical to its full rendering.
		for _, section := range strings.Split(n.Text, "\n\n") {
			assert.Contains(t, full.Text, section, "budget=%d", budget)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{950, "$950"},
		{1000, "$1,000"},
		{1250000.49, "$1,250,000"},
		{1250000.51, "$1,250,001"},
		{987654321, "$987,654,321"},
		{-5400, "-$5,400"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCurrency(tt.in), "in=%v", tt.in)
	}
}

func TestRoundTripAvailabilityMatchesNarrative(t *testing.T) {
	d := fullPropertyData()
	n := Summarize(d, 100000)

	headings := map[string]string{
		CategoryProfile:     "PROPERTY IDENTITY:",
		CategorySoil:        "SOIL COMPOSITION:",
		CategoryCropHistory: "CROP HISTORY:",
		CategoryLandCover:   "LAND COVER:",
		CategoryClimate:     "CLIMATE:",
		CategorySection180:  "SECTION 180 TAX ESTIMATE:",
	}
	for cat, heading := range headings {
		require.True(t, n.Availability[cat])
		assert.Contains(t, n.Text, heading)
	}
}
