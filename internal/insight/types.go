package insight

import "time"

// Data categories the warehouse serves for one parcel. The names double
// as availability-map keys in the narrative and the API response.
const (
	CategoryProfile     = "parcel_profile"
	CategorySoil        = "soil_profile"
	CategoryCropHistory = "crop_history"
	CategoryLandCover   = "land_cover"
	CategoryClimate     = "climate"
	CategorySection180  = "section_180"
	CategoryTopography  = "topography"
)

// Categories lists every data category in a stable order.
var Categories = []string{
	CategoryProfile,
	CategorySoil,
	CategoryCropHistory,
	CategoryLandCover,
	CategoryClimate,
	CategorySection180,
	CategoryTopography,
}

// PropertyData carries the normalized attributes for one parcel.
// A nil category pointer means the warehouse had no data for it.
// All numeric fields are plain float64; raw warehouse values never
// cross into this struct.
type PropertyData struct {
	ParcelID   string
	Profile    *ProfileData
	Soil       *SoilData
	Crops      *CropData
	LandCover  *LandCoverData
	Climate    *ClimateData
	Section180 *Section180Data
	Topography *TopographyData
}

// ProfileData is identity and valuation.
type ProfileData struct {
	Address          string
	City             string
	StateCode        string
	CountyID         string
	Acres            float64
	OwnerName        string
	TotalValue       float64
	LandValue        float64
	ImprovementValue float64
	UseDesc          string
	Zoning           string
}

// SoilData summarizes the parcel's soil components, dominant first.
type SoilData struct {
	Components []SoilComponentData
}

// SoilComponentData is one normalized soil component.
type SoilComponentData struct {
	SoilSeries          string
	FertilityClass      string
	ComponentPercentage float64
	PH                  float64
	OrganicMatterPct    float64
	SandPct             float64
	SiltPct             float64
	ClayPct             float64
	DrainageClass       string
	SlopePercent        float64
}

// DominantFertility returns the fertility descriptor of the largest
// component, falling back to the first non-empty descriptor.
func (s *SoilData) DominantFertility() string {
	for _, c := range s.Components {
		if c.FertilityClass != "" {
			return c.FertilityClass
		}
	}
	return ""
}

// CropData is the parcel's recent crop history.
type CropData struct {
	Entries []CropEntryData
}

// CropEntryData is one crop season.
type CropEntryData struct {
	Year     int
	CropType string
	Sequence int
}

// DistinctYears counts unique crop years.
func (c *CropData) DistinctYears() int {
	seen := make(map[int]struct{}, len(c.Entries))
	for _, e := range c.Entries {
		seen[e.Year] = struct{}{}
	}
	return len(seen)
}

// DistinctCrops counts unique crop types.
func (c *CropData) DistinctCrops() int {
	seen := make(map[string]struct{}, len(c.Entries))
	for _, e := range c.Entries {
		seen[e.CropType] = struct{}{}
	}
	return len(seen)
}

// LandCoverData is the normalized land-cover analysis.
type LandCoverData struct {
	AgriculturalPct     float64
	ForestPct           float64
	DevelopedPct        float64
	DominantCoverType   string
	DominantCoverPct    float64
	DominantCrop        string
	AgClassification    string
	Section180Potential string
}

// ClimateData is the normalized climate record.
type ClimateData struct {
	DataYear              int
	AnnualPrecipInches    float64
	AnnualSnowfallInches  float64
	GrowingDegreeDays     float64
	AvgTemperatureF       float64
	ClimateClassification string
}

// Section180Data is the normalized tax-deduction estimate.
type Section180Data struct {
	TotalDeduction  float64
	NitrogenValue   float64
	PhosphorusValue float64
	PotassiumValue  float64
	ConfidenceScore float64
}

// TopographyData is the normalized elevation/slope record.
type TopographyData struct {
	MeanElevationFt float64
	SlopePercent    float64
	TerrainAnalysis string
}

// InsightResult is the assembled response for one parcel.
type InsightResult struct {
	ParcelID            string          `json:"property_id"`
	Score               Score           `json:"property_score"`
	Analysis            string          `json:"analysis,omitempty"`
	AnalysisUnavailable bool            `json:"analysis_unavailable"`
	DataSummary         map[string]bool `json:"data_summary"`
	GeneratedAt         time.Time       `json:"generated_at"`
}
