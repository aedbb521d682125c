package insight

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Narrative is the bounded grounding context handed to the LLM, plus
// the per-category availability map consumed by the orchestrator.
type Narrative struct {
	Text         string
	Availability map[string]bool
}

// Summarize renders the normalized attributes into a text block no
// longer than budget characters. Categories without data are omitted
// entirely. When the full text exceeds the budget, whole sections are
// dropped lowest-priority first; sentences are never cut mid-way.
func Summarize(d *PropertyData, budget int) Narrative {
	availability := map[string]bool{
		CategoryProfile:     d.Profile != nil,
		CategorySoil:        d.Soil != nil && len(d.Soil.Components) > 0,
		CategoryCropHistory: d.Crops != nil && len(d.Crops.Entries) > 0,
		CategoryLandCover:   d.LandCover != nil,
		CategoryClimate:     d.Climate != nil,
		CategorySection180:  d.Section180 != nil,
		CategoryTopography:  d.Topography != nil,
	}

	// Highest priority first. Truncation removes from the tail.
	sections := []string{
		identitySection(d),
		valuationSection(d),
		soilSection(d),
		cropSection(d),
		climateSection(d),
		landCoverSection(d),
		section180Section(d),
		topographySection(d),
	}

	kept := sections[:0]
	for _, s := range sections {
		if s != "" {
			kept = append(kept, s)
		}
	}

	for len(kept) > 0 && totalLength(kept) > budget {
		kept = kept[:len(kept)-1]
	}

	return Narrative{
		Text:         strings.Join(kept, "\n\n"),
		Availability: availability,
	}
}

func totalLength(sections []string) int {
	n := 0
	for i, s := range sections {
		if i > 0 {
			n += 2 // section separator
		}
		n += len(s)
	}
	return n
}

func identitySection(d *PropertyData) string {
	var sb strings.Builder
	sb.WriteString("PROPERTY IDENTITY:\n")
	sb.WriteString(fmt.Sprintf("Parcel %s", d.ParcelID))
	if d.Profile == nil {
		return sb.String()
	}
	p := d.Profile
	if p.Acres > 0 {
		sb.WriteString(fmt.Sprintf(", %.1f acres", p.Acres))
	}
	if p.Address != "" {
		sb.WriteString(fmt.Sprintf(", located at %s", p.Address))
	}
	if p.City != "" || p.StateCode != "" {
		sb.WriteString(fmt.Sprintf(", %s %s", p.City, p.StateCode))
	}
	sb.WriteString(".")
	if p.OwnerName != "" {
		sb.WriteString(fmt.Sprintf(" Owner: %s.", p.OwnerName))
	}
	if p.UseDesc != "" {
		sb.WriteString(fmt.Sprintf(" Land use: %s.", p.UseDesc))
	}
	if p.Zoning != "" {
		sb.WriteString(fmt.Sprintf(" Zoning: %s.", p.Zoning))
	}
	return sb.String()
}

func valuationSection(d *PropertyData) string {
	if d.Profile == nil {
		return ""
	}
	p := d.Profile
	if p.TotalValue == 0 && p.LandValue == 0 && p.ImprovementValue == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("VALUATION:\n")
	sb.WriteString(fmt.Sprintf("Assessed total value %s", formatCurrency(p.TotalValue)))
	if p.LandValue > 0 {
		sb.WriteString(fmt.Sprintf(", land %s", formatCurrency(p.LandValue)))
	}
	if p.ImprovementValue > 0 {
		sb.WriteString(fmt.Sprintf(", improvements %s", formatCurrency(p.ImprovementValue)))
	}
	sb.WriteString(".")
	return sb.String()
}

func soilSection(d *PropertyData) string {
	if d.Soil == nil || len(d.Soil.Components) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("SOIL COMPOSITION:\n")
	for i, c := range d.Soil.Components {
		if i >= 3 {
			sb.WriteString(fmt.Sprintf("Plus %d additional minor components.", len(d.Soil.Components)-3))
			break
		}
		name := c.SoilSeries
		if name == "" {
			name = "Unnamed component"
		}
		sb.WriteString(fmt.Sprintf("%s (%.0f%% of parcel)", name, c.ComponentPercentage))
		var details []string
		if c.FertilityClass != "" {
			details = append(details, c.FertilityClass)
		}
		if c.PH > 0 {
			details = append(details, fmt.Sprintf("pH %.1f", c.PH))
		}
		if c.OrganicMatterPct > 0 {
			details = append(details, fmt.Sprintf("%.1f%% organic matter", c.OrganicMatterPct))
		}
		if c.DrainageClass != "" {
			details = append(details, c.DrainageClass)
		}
		if len(details) > 0 {
			sb.WriteString(": " + strings.Join(details, ", "))
		}
		sb.WriteString(".\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func cropSection(d *PropertyData) string {
	if d.Crops == nil || len(d.Crops.Entries) == 0 {
		return ""
	}
	byYear := make(map[int][]string)
	var years []int
	for _, e := range d.Crops.Entries {
		if _, ok := byYear[e.Year]; !ok {
			years = append(years, e.Year)
		}
		byYear[e.Year] = append(byYear[e.Year], e.CropType)
	}
	var sb strings.Builder
	sb.WriteString("CROP HISTORY:\n")
	sb.WriteString(fmt.Sprintf("%d seasons across %d years, %d distinct crops.\n",
		len(d.Crops.Entries), d.Crops.DistinctYears(), d.Crops.DistinctCrops()))
	for _, y := range years {
		sb.WriteString(fmt.Sprintf("%d: %s.\n", y, strings.Join(byYear[y], ", ")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func climateSection(d *PropertyData) string {
	if d.Climate == nil {
		return ""
	}
	c := d.Climate
	var sb strings.Builder
	sb.WriteString("CLIMATE:\n")
	sb.WriteString(fmt.Sprintf("Annual precipitation %.1f inches", c.AnnualPrecipInches))
	if c.AnnualSnowfallInches > 0 {
		sb.WriteString(fmt.Sprintf(", snowfall %.1f inches", c.AnnualSnowfallInches))
	}
	if c.GrowingDegreeDays > 0 {
		sb.WriteString(fmt.Sprintf(", %.0f growing degree days", c.GrowingDegreeDays))
	}
	if c.AvgTemperatureF > 0 {
		sb.WriteString(fmt.Sprintf(", average temperature %.1fF", c.AvgTemperatureF))
	}
	sb.WriteString(".")
	if c.ClimateClassification != "" {
		sb.WriteString(fmt.Sprintf(" Classification: %s.", c.ClimateClassification))
	}
	return sb.String()
}

func landCoverSection(d *PropertyData) string {
	if d.LandCover == nil {
		return ""
	}
	lc := d.LandCover
	var sb strings.Builder
	sb.WriteString("LAND COVER:\n")
	sb.WriteString(fmt.Sprintf("Agricultural %.1f%%, forest %.1f%%, developed %.1f%%.",
		lc.AgriculturalPct, lc.ForestPct, lc.DevelopedPct))
	if lc.DominantCoverType != "" {
		sb.WriteString(fmt.Sprintf(" Dominant cover: %s (%.1f%%).", lc.DominantCoverType, lc.DominantCoverPct))
	}
	if lc.DominantCrop != "" {
		sb.WriteString(fmt.Sprintf(" Dominant crop: %s.", lc.DominantCrop))
	}
	if lc.AgClassification != "" {
		sb.WriteString(fmt.Sprintf(" Classification: %s.", lc.AgClassification))
	}
	return sb.String()
}

func section180Section(d *PropertyData) string {
	if d.Section180 == nil {
		return ""
	}
	s := d.Section180
	var sb strings.Builder
	sb.WriteString("SECTION 180 TAX ESTIMATE:\n")
	sb.WriteString(fmt.Sprintf("Estimated deduction %s", formatCurrency(s.TotalDeduction)))
	if s.ConfidenceScore > 0 {
		sb.WriteString(fmt.Sprintf(" (confidence %.0f%%)", s.ConfidenceScore))
	}
	sb.WriteString(".")
	return sb.String()
}

func topographySection(d *PropertyData) string {
	if d.Topography == nil {
		return ""
	}
	t := d.Topography
	var sb strings.Builder
	sb.WriteString("TOPOGRAPHY:\n")
	sb.WriteString(fmt.Sprintf("Mean elevation %.0f ft, slope %.1f%%.", t.MeanElevationFt, t.SlopePercent))
	if t.TerrainAnalysis != "" {
		sb.WriteString(" " + t.TerrainAnalysis)
	}
	return sb.String()
}

// formatCurrency renders a dollar amount with thousands separators and
// no cents. Raw float representations never appear in the narrative.
func formatCurrency(v float64) string {
	rounded := int64(math.Round(v))
	neg := rounded < 0
	if neg {
		rounded = -rounded
	}
	digits := strconv.FormatInt(rounded, 10)

	var sb strings.Builder
	if neg {
		sb.WriteString("-")
	}
	sb.WriteString("$")
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
		if len(digits) > lead {
			sb.WriteString(",")
		}
	}
	for i := lead; i < len(digits); i += 3 {
		sb.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			sb.WriteString(",")
		}
	}
	return sb.String()
}
