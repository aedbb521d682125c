package warehouse

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Row types returned by the adapter. NUMERIC columns are scanned into
// pgtype.Numeric and must pass through internal/numeric before any
// arithmetic or formatting touches them.

// ParcelProfile is a single row from curated.parcel_profile.
type ParcelProfile struct {
	ParcelID          string
	Address           pgtype.Text
	City              pgtype.Text
	StateCode         pgtype.Text
	ZipCode           pgtype.Text
	CountyID          pgtype.Text
	Acres             pgtype.Numeric
	OwnerName         pgtype.Text
	TotalValue        pgtype.Numeric
	LandValue         pgtype.Numeric
	ImprovementValue  pgtype.Numeric
	UseCode           pgtype.Text
	UseDesc           pgtype.Text
	Zoning            pgtype.Text
	ZoningDescription pgtype.Text
	Latitude          pgtype.Float8
	Longitude         pgtype.Float8
}

// SoilComponent is one soil map-unit component for a parcel, ordered by
// component percentage descending.
type SoilComponent struct {
	ParcelID               string
	Mukey                  pgtype.Text
	MapUnitSymbol          pgtype.Text
	ComponentPercentage    pgtype.Numeric
	SoilSeries             pgtype.Text
	SoilType               pgtype.Text
	FertilityClass         pgtype.Text
	OrganicMatterPct       pgtype.Numeric
	PHLevel                pgtype.Numeric
	SandPct                pgtype.Numeric
	SiltPct                pgtype.Numeric
	ClayPct                pgtype.Numeric
	DrainageClass          pgtype.Text
	HydrologicGroup        pgtype.Text
	SlopePercent           pgtype.Numeric
	AgriculturalCapability pgtype.Text
}

// CropHistoryEntry is one crop/season record for a parcel.
type CropHistoryEntry struct {
	HistoryID        int64
	ParcelID         string
	CropYear         int
	CropType         string
	RotationSequence int
	CountyID         pgtype.Text
	StateCode        pgtype.Text
}

// ClimateRecord is the most recent climate row for a parcel.
type ClimateRecord struct {
	ParcelID                  string
	DataYear                  int
	AnnualPrecipitationInches pgtype.Numeric
	AnnualSnowfallInches      pgtype.Numeric
	GrowingDegreeDays         pgtype.Numeric
	AvgTemperatureF           pgtype.Numeric
	ClimateClassification     pgtype.Text
}

// LandCoverAnalysis is the comprehensive CDL land-cover row for a parcel.
type LandCoverAnalysis struct {
	ParcelID                   string
	ParcelAcres                pgtype.Numeric
	AgriculturalPercentage     pgtype.Numeric
	ForestPercentage           pgtype.Numeric
	DevelopedPercentage        pgtype.Numeric
	DominantCoverType          pgtype.Text
	DominantCoverPercentage    pgtype.Numeric
	TotalCoverTypes            pgtype.Int4
	CropSummary                pgtype.Text
	DominantCrop               pgtype.Text
	AgriculturalClassification pgtype.Text
	Section180Potential        pgtype.Text
	TaxAmount                  pgtype.Numeric
	SalePrice                  pgtype.Numeric
	SaleDate                   pgtype.Date
}

// Section180Estimate is the latest tax-deduction estimate for a parcel.
type Section180Estimate struct {
	ParcelID        string
	EstimateDate    time.Time
	TotalDeduction  pgtype.Numeric
	NitrogenValue   pgtype.Numeric
	PhosphorusValue pgtype.Numeric
	PotassiumValue  pgtype.Numeric
	ConfidenceScore pgtype.Numeric
	Methodology     pgtype.Text
}

// TopographyRecord is the latest elevation/slope row for a parcel.
type TopographyRecord struct {
	ParcelID            string
	MeanElevationFt     pgtype.Numeric
	MinElevationFt      pgtype.Numeric
	MaxElevationFt      pgtype.Numeric
	ElevationVarianceFt pgtype.Numeric
	SlopePercent        pgtype.Numeric
	TerrainAnalysis     pgtype.Text
}

// PropertySummary is a compact row for search results.
type PropertySummary struct {
	ParcelID   string         `json:"parcel_id"`
	Address    pgtype.Text    `json:"address"`
	City       pgtype.Text    `json:"city"`
	StateCode  pgtype.Text    `json:"state_code"`
	CountyID   pgtype.Text    `json:"county_id"`
	Acres      pgtype.Numeric `json:"acres"`
	OwnerName  pgtype.Text    `json:"owner_name"`
	TotalValue pgtype.Numeric `json:"total_value"`
	UseDesc    pgtype.Text    `json:"use_desc"`
	Latitude   pgtype.Float8  `json:"latitude"`
	Longitude  pgtype.Float8  `json:"longitude"`
}

// SearchCriteria filters property search.
type SearchCriteria struct {
	MinAcreage *float64
	MaxAcreage *float64
	County     string
	State      string
	Limit      int
}

// RegionalCropStat aggregates crop history over a county.
type RegionalCropStat struct {
	CropType      string
	Frequency     int
	AvgRotation   pgtype.Numeric
	UniqueParcels int
	YearsGrown    int
}
