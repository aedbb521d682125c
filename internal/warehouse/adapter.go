// Package warehouse is the read-only adapter over the curated analytical
// schema. Each fetch is keyed by parcel ID and returns ErrNoData when the
// parcel has no rows in that category, so callers can tell "no data" apart
// from a transport failure.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/birddog/teddy/pkg/logger"
)

// ErrNoData means the warehouse holds no rows for the requested parcel
// in the queried category. It is not a failure of the warehouse itself.
var ErrNoData = errors.New("warehouse: no data for parcel")

const defaultSearchLimit = 20

// Adapter reads curated views through a shared pgx pool.
type Adapter struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewAdapter creates a warehouse adapter.
func NewAdapter(pool *pgxpool.Pool, log *logger.Logger) *Adapter {
	return &Adapter{pool: pool, logger: log}
}

// FetchParcelProfile retrieves the ownership/valuation profile for a parcel.
func (a *Adapter) FetchParcelProfile(ctx context.Context, parcelID string) (*ParcelProfile, error) {
	query := `
		SELECT parcel_id, address, city, state_code, zip_code, county_id,
		       acres, owner_name, total_value, land_value, improvement_value,
		       use_code, use_desc, zoning, zoning_description, latitude, longitude
		FROM curated.parcel_profile
		WHERE parcel_id = $1
	`

	var p ParcelProfile
	err := a.pool.QueryRow(ctx, query, parcelID).Scan(
		&p.ParcelID, &p.Address, &p.City, &p.StateCode, &p.ZipCode, &p.CountyID,
		&p.Acres, &p.OwnerName, &p.TotalValue, &p.LandValue, &p.ImprovementValue,
		&p.UseCode, &p.UseDesc, &p.Zoning, &p.ZoningDescription, &p.Latitude, &p.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("parcel_profile %s: %w", parcelID, ErrNoData)
		}
		return nil, fmt.Errorf("fetch parcel_profile %s: %w", parcelID, err)
	}
	return &p, nil
}

// FetchSoilProfile retrieves soil components for a parcel, dominant first.
func (a *Adapter) FetchSoilProfile(ctx context.Context, parcelID string) ([]SoilComponent, error) {
	query := `
		SELECT parcel_id, mukey, map_unit_symbol, component_percentage,
		       soil_series, soil_type, fertility_class, organic_matter_pct,
		       ph_level, sand_pct, silt_pct, clay_pct, drainage_class,
		       hydrologic_group, slope_percent, agricultural_capability
		FROM curated.soil_profile
		WHERE parcel_id = $1
		ORDER BY component_percentage DESC NULLS LAST
	`

	rows, err := a.pool.Query(ctx, query, parcelID)
	if err != nil {
		return nil, fmt.Errorf("fetch soil_profile %s: %w", parcelID, err)
	}
	defer rows.Close()

	var components []SoilComponent
	for rows.Next() {
		var c SoilComponent
		if err := rows.Scan(
			&c.ParcelID, &c.Mukey, &c.MapUnitSymbol, &c.ComponentPercentage,
			&c.SoilSeries, &c.SoilType, &c.FertilityClass, &c.OrganicMatterPct,
			&c.PHLevel, &c.SandPct, &c.SiltPct, &c.ClayPct, &c.DrainageClass,
			&c.HydrologicGroup, &c.SlopePercent, &c.AgriculturalCapability,
		); err != nil {
			return nil, fmt.Errorf("scan soil_profile %s: %w", parcelID, err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch soil_profile %s: %w", parcelID, err)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("soil_profile %s: %w", parcelID, ErrNoData)
	}
	return components, nil
}

// FetchCropHistory retrieves up to years of crop seasons, newest first.
func (a *Adapter) FetchCropHistory(ctx context.Context, parcelID string, years int) ([]CropHistoryEntry, error) {
	query := `
		SELECT history_id, parcel_id, crop_year, crop_type, rotation_sequence,
		       county_id, state_code
		FROM curated.crop_history
		WHERE parcel_id = $1
		ORDER BY crop_year DESC, rotation_sequence ASC
		LIMIT $2
	`

	// A parcel can grow several crops in one year; the cap is generous
	// enough to cover every rotation slot inside the year window.
	rows, err := a.pool.Query(ctx, query, parcelID, years*4)
	if err != nil {
		return nil, fmt.Errorf("fetch crop_history %s: %w", parcelID, err)
	}
	defer rows.Close()

	var entries []CropHistoryEntry
	for rows.Next() {
		var e CropHistoryEntry
		if err := rows.Scan(
			&e.HistoryID, &e.ParcelID, &e.CropYear, &e.CropType,
			&e.RotationSequence, &e.CountyID, &e.StateCode,
		); err != nil {
			return nil, fmt.Errorf("scan crop_history %s: %w", parcelID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch crop_history %s: %w", parcelID, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("crop_history %s: %w", parcelID, ErrNoData)
	}
	return entries, nil
}

// FetchLandCover retrieves the comprehensive CDL land-cover analysis row.
func (a *Adapter) FetchLandCover(ctx context.Context, parcelID string) (*LandCoverAnalysis, error) {
	query := `
		SELECT parcel_id, parcel_acres, agricultural_percentage, forest_percentage,
		       developed_percentage, dominant_cover_type, dominant_cover_percentage,
		       total_cover_types, crop_summary, dominant_crop,
		       agricultural_classification, section_180_potential,
		       tax_amount, sale_price, sale_date
		FROM curated.comprehensive_parcel_cdl_analysis
		WHERE parcel_id = $1
	`

	var lc LandCoverAnalysis
	err := a.pool.QueryRow(ctx, query, parcelID).Scan(
		&lc.ParcelID, &lc.ParcelAcres, &lc.AgriculturalPercentage, &lc.ForestPercentage,
		&lc.DevelopedPercentage, &lc.DominantCoverType, &lc.DominantCoverPercentage,
		&lc.TotalCoverTypes, &lc.CropSummary, &lc.DominantCrop,
		&lc.AgriculturalClassification, &lc.Section180Potential,
		&lc.TaxAmount, &lc.SalePrice, &lc.SaleDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("comprehensive_parcel_cdl_analysis %s: %w", parcelID, ErrNoData)
		}
		return nil, fmt.Errorf("fetch comprehensive_parcel_cdl_analysis %s: %w", parcelID, err)
	}
	return &lc, nil
}

// FetchClimate retrieves the most recent climate record for a parcel.
func (a *Adapter) FetchClimate(ctx context.Context, parcelID string) (*ClimateRecord, error) {
	query := `
		SELECT parcel_id, data_year, annual_precipitation_inches,
		       annual_snowfall_inches, growing_degree_days,
		       avg_temperature_f, climate_classification
		FROM curated.climate_data
		WHERE parcel_id = $1
		ORDER BY data_year DESC
		LIMIT 1
	`

	var c ClimateRecord
	err := a.pool.QueryRow(ctx, query, parcelID).Scan(
		&c.ParcelID, &c.DataYear, &c.AnnualPrecipitationInches,
		&c.AnnualSnowfallInches, &c.GrowingDegreeDays,
		&c.AvgTemperatureF, &c.ClimateClassification,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("climate_data %s: %w", parcelID, ErrNoData)
		}
		return nil, fmt.Errorf("fetch climate_data %s: %w", parcelID, err)
	}
	return &c, nil
}

// FetchSection180Estimate retrieves the latest tax-deduction estimate.
func (a *Adapter) FetchSection180Estimate(ctx context.Context, parcelID string) (*Section180Estimate, error) {
	query := `
		SELECT parcel_id, estimate_date, total_deduction, nitrogen_value,
		       phosphorus_value, potassium_value, confidence_score, methodology
		FROM curated.section_180_estimates
		WHERE parcel_id = $1
		ORDER BY estimate_date DESC
		LIMIT 1
	`

	var e Section180Estimate
	err := a.pool.QueryRow(ctx, query, parcelID).Scan(
		&e.ParcelID, &e.EstimateDate, &e.TotalDeduction, &e.NitrogenValue,
		&e.PhosphorusValue, &e.PotassiumValue, &e.ConfidenceScore, &e.Methodology,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("section_180_estimates %s: %w", parcelID, ErrNoData)
		}
		return nil, fmt.Errorf("fetch section_180_estimates %s: %w", parcelID, err)
	}
	return &e, nil
}

// FetchTopography retrieves elevation and slope data for a parcel.
func (a *Adapter) FetchTopography(ctx context.Context, parcelID string) (*TopographyRecord, error) {
	query := `
		SELECT parcel_id, mean_elevation_ft, min_elevation_ft, max_elevation_ft,
		       elevation_variance_ft, slope_percent, terrain_analysis
		FROM curated.topography
		WHERE parcel_id = $1
	`

	var tr TopographyRecord
	err := a.pool.QueryRow(ctx, query, parcelID).Scan(
		&tr.ParcelID, &tr.MeanElevationFt, &tr.MinElevationFt, &tr.MaxElevationFt,
		&tr.ElevationVarianceFt, &tr.SlopePercent, &tr.TerrainAnalysis,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("topography %s: %w", parcelID, ErrNoData)
		}
		return nil, fmt.Errorf("fetch topography %s: %w", parcelID, err)
	}
	return &tr, nil
}

// SearchByCriteria finds parcels matching acreage, county and state filters.
// An empty criteria set returns the newest parcels up to the default limit.
func (a *Adapter) SearchByCriteria(ctx context.Context, criteria SearchCriteria) ([]PropertySummary, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT parcel_id, address, city, state_code, county_id,
		       acres, owner_name, total_value, use_desc, latitude, longitude
		FROM curated.parcel_profile
		WHERE 1=1
	`)

	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if criteria.MinAcreage != nil {
		sb.WriteString(" AND acres >= " + arg(*criteria.MinAcreage))
	}
	if criteria.MaxAcreage != nil {
		sb.WriteString(" AND acres <= " + arg(*criteria.MaxAcreage))
	}
	if criteria.County != "" {
		sb.WriteString(" AND county_id = " + arg(criteria.County))
	}
	if criteria.State != "" {
		sb.WriteString(" AND state_code = " + arg(strings.ToUpper(criteria.State)))
	}

	limit := criteria.Limit
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}
	sb.WriteString(" ORDER BY acres DESC NULLS LAST LIMIT " + arg(limit))

	rows, err := a.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search parcels: %w", err)
	}
	defer rows.Close()

	var results []PropertySummary
	for rows.Next() {
		var s PropertySummary
		if err := rows.Scan(
			&s.ParcelID, &s.Address, &s.City, &s.StateCode, &s.CountyID,
			&s.Acres, &s.OwnerName, &s.TotalValue, &s.UseDesc, &s.Latitude, &s.Longitude,
		); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// RegionalCropStats aggregates crop frequency across a county for the
// recommendation engine. Results come back most frequent first.
func (a *Adapter) RegionalCropStats(ctx context.Context, countyID, stateCode string, years int) ([]RegionalCropStat, error) {
	query := `
		SELECT crop_type,
		       COUNT(*) AS frequency,
		       AVG(rotation_sequence) AS avg_rotation,
		       COUNT(DISTINCT parcel_id) AS unique_parcels,
		       COUNT(DISTINCT crop_year) AS years_grown
		FROM curated.crop_history
		WHERE county_id = $1 AND state_code = $2
		  AND crop_year >= EXTRACT(YEAR FROM CURRENT_DATE)::int - $3
		GROUP BY crop_type
		ORDER BY frequency DESC
		LIMIT 10
	`

	rows, err := a.pool.Query(ctx, query, countyID, strings.ToUpper(stateCode), years)
	if err != nil {
		return nil, fmt.Errorf("fetch regional crop stats %s/%s: %w", countyID, stateCode, err)
	}
	defer rows.Close()

	var stats []RegionalCropStat
	for rows.Next() {
		var s RegionalCropStat
		if err := rows.Scan(&s.CropType, &s.Frequency, &s.AvgRotation, &s.UniqueParcels, &s.YearsGrown); err != nil {
			return nil, fmt.Errorf("scan regional crop stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch regional crop stats %s/%s: %w", countyID, stateCode, err)
	}
	return stats, nil
}
