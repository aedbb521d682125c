package insight

import (
	"github.com/birddog/teddy/internal/numeric"
	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/logger"
)

// Conversion from warehouse rows to normalized PropertyData. Every
// numeric field crosses the numeric.Float boundary here; format errors
// are logged once and resolved to the field default.

func convertProfile(row *warehouse.ParcelProfile, log *logger.Logger) *ProfileData {
	if row == nil {
		return nil
	}
	return &ProfileData{
		Address:          row.Address.String,
		City:             row.City.String,
		StateCode:        row.StateCode.String,
		CountyID:         row.CountyID.String,
		Acres:            toFloat(row.Acres, 0, "acres", log),
		OwnerName:        row.OwnerName.String,
		TotalValue:       toFloat(row.TotalValue, 0, "total_value", log),
		LandValue:        toFloat(row.LandValue, 0, "land_value", log),
		ImprovementValue: toFloat(row.ImprovementValue, 0, "improvement_value", log),
		UseDesc:          row.UseDesc.String,
		Zoning:           row.Zoning.String,
	}
}

func convertSoil(rows []warehouse.SoilComponent, log *logger.Logger) *SoilData {
	if len(rows) == 0 {
		return nil
	}
	components := make([]SoilComponentData, 0, len(rows))
	for _, r := range rows {
		components = append(components, SoilComponentData{
			SoilSeries:          r.SoilSeries.String,
			FertilityClass:      r.FertilityClass.String,
			ComponentPercentage: toFloat(r.ComponentPercentage, 0, "component_percentage", log),
			PH:                  toFloat(r.PHLevel, 0, "ph_level", log),
			OrganicMatterPct:    toFloat(r.OrganicMatterPct, 0, "organic_matter_pct", log),
			SandPct:             toFloat(r.SandPct, 0, "sand_pct", log),
			SiltPct:             toFloat(r.SiltPct, 0, "silt_pct", log),
			ClayPct:             toFloat(r.ClayPct, 0, "clay_pct", log),
			DrainageClass:       r.DrainageClass.String,
			SlopePercent:        toFloat(r.SlopePercent, 0, "slope_percent", log),
		})
	}
	return &SoilData{Components: components}
}

func convertCrops(rows []warehouse.CropHistoryEntry) *CropData {
	if len(rows) == 0 {
		return nil
	}
	entries := make([]CropEntryData, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, CropEntryData{
			Year:     r.CropYear,
			CropType: r.CropType,
			Sequence: r.RotationSequence,
		})
	}
	return &CropData{Entries: entries}
}

func convertLandCover(row *warehouse.LandCoverAnalysis, log *logger.Logger) *LandCoverData {
	if row == nil {
		return nil
	}
	return &LandCoverData{
		AgriculturalPct:     toFloat(row.AgriculturalPercentage, 0, "agricultural_percentage", log),
		ForestPct:           toFloat(row.ForestPercentage, 0, "forest_percentage", log),
		DevelopedPct:        toFloat(row.DevelopedPercentage, 0, "developed_percentage", log),
		DominantCoverType:   row.DominantCoverType.String,
		DominantCoverPct:    toFloat(row.DominantCoverPercentage, 0, "dominant_cover_percentage", log),
		DominantCrop:        row.DominantCrop.String,
		AgClassification:    row.AgriculturalClassification.String,
		Section180Potential: row.Section180Potential.String,
	}
}

func convertClimate(row *warehouse.ClimateRecord, log *logger.Logger) *ClimateData {
	if row == nil {
		return nil
	}
	return &ClimateData{
		DataYear:              row.DataYear,
		AnnualPrecipInches:    toFloat(row.AnnualPrecipitationInches, 0, "annual_precipitation_inches", log),
		AnnualSnowfallInches:  toFloat(row.AnnualSnowfallInches, 0, "annual_snowfall_inches", log),
		GrowingDegreeDays:     toFloat(row.GrowingDegreeDays, 0, "growing_degree_days", log),
		AvgTemperatureF:       toFloat(row.AvgTemperatureF, 0, "avg_temperature_f", log),
		ClimateClassification: row.ClimateClassification.String,
	}
}

func convertSection180(row *warehouse.Section180Estimate, log *logger.Logger) *Section180Data {
	if row == nil {
		return nil
	}
	return &Section180Data{
		TotalDeduction:  toFloat(row.TotalDeduction, 0, "total_deduction", log),
		NitrogenValue:   toFloat(row.NitrogenValue, 0, "nitrogen_value", log),
		PhosphorusValue: toFloat(row.PhosphorusValue, 0, "phosphorus_value", log),
		PotassiumValue:  toFloat(row.PotassiumValue, 0, "potassium_value", log),
		ConfidenceScore: toFloat(row.ConfidenceScore, 0, "confidence_score", log),
	}
}

func convertTopography(row *warehouse.TopographyRecord, log *logger.Logger) *TopographyData {
	if row == nil {
		return nil
	}
	return &TopographyData{
		MeanElevationFt: toFloat(row.MeanElevationFt, 0, "mean_elevation_ft", log),
		SlopePercent:    toFloat(row.SlopePercent, 0, "slope_percent", log),
		TerrainAnalysis: row.TerrainAnalysis.String,
	}
}

func toFloat(v interface{}, def float64, field string, log *logger.Logger) float64 {
	f, err := numeric.Float(v, def)
	if err != nil && log != nil {
		log.WithFields(map[string]interface{}{
			"field": field,
			"error": err.Error(),
		}).Warn("Unparseable numeric field, using default")
	}
	return f
}
