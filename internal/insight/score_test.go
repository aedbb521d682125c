package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoilSubScoreTiers(t *testing.T) {
	tests := []struct {
		fertility string
		want      float64
	}{
		{"High fertility, prime farmland", 90},
		{"PRIME cropland", 90},
		{"Good drainage", 75},
		{"moderate fertility", 75},
		{"Rocky, thin topsoil", 60},
		{"unknown", 60},
	}
	for _, tt := range tests {
		t.Run(tt.fertility, func(t *testing.T) {
			assert.Equal(t, tt.want, soilSubScore(tt.fertility))
		})
	}
}

func TestCropHistorySubScore(t *testing.T) {
	// 3 years and 2 crops combine to min(3*10+2*5, 100) = 50
	assert.Equal(t, 50.0, cropHistorySubScore(3, 2))
	assert.Equal(t, 0.0, cropHistorySubScore(0, 0))
	assert.Equal(t, 100.0, cropHistorySubScore(9, 4))
	assert.Equal(t, 100.0, cropHistorySubScore(20, 20))
}

func TestClimateSubScoreBands(t *testing.T) {
	tests := []struct {
		precip float64
		want   float64
	}{
		{25, 85},
		{20, 85},
		{39.9, 85},
		{16, 70},
		{15, 70},
		{40, 70}, // half-open upper edge of the prime band
		{49.9, 70},
		{5, 55},
		{50, 55},
		{0, 55},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, climateSubScore(tt.precip), "precip=%v", tt.precip)
	}
}

func TestComputeScoreAveragesAvailableCategories(t *testing.T) {
	d := &PropertyData{
		ParcelID: "TX-1",
		Soil: &SoilData{Components: []SoilComponentData{
			{FertilityClass: "High fertility", ComponentPercentage: 80},
		}},
		LandCover: &LandCoverData{AgriculturalPct: 70},
		Crops: &CropData{Entries: []CropEntryData{
			{Year: 2022, CropType: "Corn"},
			{Year: 2023, CropType: "Soybeans"},
			{Year: 2024, CropType: "Corn"},
		}},
		Climate: &ClimateData{AnnualPrecipInches: 25},
	}

	s := ComputeScore(d)
	require.False(t, s.Indeterminate)
	require.NotNil(t, s.Soil)
	require.NotNil(t, s.Agricultural)
	require.NotNil(t, s.CropHistory)
	require.NotNil(t, s.Climate)

	assert.Equal(t, 90.0, *s.Soil)
	assert.Equal(t, 70.0, *s.Agricultural)
	// 3 distinct years, 2 distinct crops
	assert.Equal(t, 40.0, *s.CropHistory)
	assert.Equal(t, 85.0, *s.Climate)
	assert.InDelta(t, (90+70+40+85)/4.0, s.Overall, 1e-9)
}

func TestComputeScoreExcludesMissingCategories(t *testing.T) {
	// Missing categories shrink the divisor, they do not count as zero.
	d := &PropertyData{
		ParcelID: "TX-2",
		Climate:  &ClimateData{AnnualPrecipInches: 25},
	}

	s := ComputeScore(d)
	require.False(t, s.Indeterminate)
	assert.Nil(t, s.Soil)
	assert.Nil(t, s.Agricultural)
	assert.Nil(t, s.CropHistory)
	assert.Equal(t, 85.0, s.Overall)
}

func TestComputeScoreIndeterminateWithNoData(t *testing.T) {
	s := ComputeScore(&PropertyData{ParcelID: "TX-3"})
	assert.True(t, s.Indeterminate)
	assert.Equal(t, 0.0, s.Overall)
}

func TestComputeScoreClampsAgriculturalPct(t *testing.T) {
	d := &PropertyData{
		ParcelID:  "TX-4",
		LandCover: &LandCoverData{AgriculturalPct: 150},
	}
	s := ComputeScore(d)
	assert.Equal(t, 100.0, *s.Agricultural)
	assert.Equal(t, 100.0, s.Overall)

	d.LandCover.AgriculturalPct = -10
	s = ComputeScore(d)
	assert.Equal(t, 0.0, *s.Agricultural)
}

func TestComputeScoreIsDeterministic(t *testing.T) {
	d := &PropertyData{
		ParcelID: "TX-5",
		Soil:     &SoilData{Components: []SoilComponentData{{FertilityClass: "Good"}}},
		Climate:  &ClimateData{AnnualPrecipInches: 33},
	}
	first := ComputeScore(d)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeScore(d))
	}
}

func TestComputeScoreSoilWithoutFertilityText(t *testing.T) {
	// Soil rows without a fertility descriptor cannot feed the tier map.
	d := &PropertyData{
		ParcelID: "TX-6",
		Soil:     &SoilData{Components: []SoilComponentData{{SoilSeries: "Houston Black"}}},
	}
	s := ComputeScore(d)
	assert.Nil(t, s.Soil)
	assert.True(t, s.Indeterminate)
}
