package recommend

// Static agronomy knowledge for the four major row crops. Yield, revenue
// and market figures are baseline estimates; a market data feed would
// replace them in a later iteration.

// rotationKnowledge maps a crop to the predecessors it benefits from
// and the benefits it contributes to a rotation.
var rotationKnowledge = map[string]struct {
	After    []string
	Benefits []string
}{
	"corn": {
		After:    []string{"soybeans", "wheat", "cover_crops"},
		Benefits: []string{"nitrogen_utilization", "pest_break", "soil_structure"},
	},
	"soybeans": {
		After:    []string{"corn", "wheat", "cotton"},
		Benefits: []string{"nitrogen_fixation", "weed_control", "soil_health"},
	},
	"wheat": {
		After:    []string{"corn", "soybeans", "cotton"},
		Benefits: []string{"early_harvest", "cover_protection", "pest_management"},
	},
	"cotton": {
		After:    []string{"corn", "wheat", "cover_crops"},
		Benefits: []string{"deep_rooting", "soil_aeration", "pest_diversity"},
	},
}

// cropTypes is the order recommendations are generated in.
var cropTypes = []string{"corn", "soybeans", "wheat", "cotton"}

type marketData struct {
	PriceTrend string
	Demand     string
	Outlook    string
}

var marketOutlook = map[string]marketData{
	"corn":     {PriceTrend: "stable", Demand: "high", Outlook: "positive"},
	"soybeans": {PriceTrend: "increasing", Demand: "very_high", Outlook: "very_positive"},
	"wheat":    {PriceTrend: "stable", Demand: "moderate", Outlook: "stable"},
	"cotton":   {PriceTrend: "decreasing", Demand: "moderate", Outlook: "cautious"},
}

var baseYields = map[string]string{
	"corn":     "160-180 bushels/acre",
	"soybeans": "45-55 bushels/acre",
	"wheat":    "40-50 bushels/acre",
	"cotton":   "800-1000 lbs/acre",
}

var baseRevenue = map[string]string{
	"corn":     "$800-$950/acre",
	"soybeans": "$650-$800/acre",
	"wheat":    "$300-$400/acre",
	"cotton":   "$600-$800/acre",
}

// PlantingWindow is the recommended planting date range.
type PlantingWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

var plantingWindows = map[string]PlantingWindow{
	"corn":     {Start: "April 15", End: "May 30"},
	"soybeans": {Start: "May 1", End: "June 15"},
	"wheat":    {Start: "September 15", End: "November 1"},
	"cotton":   {Start: "April 1", End: "May 15"},
}

var cropConsiderations = map[string][]string{
	"corn": {
		"Requires well-drained soil",
		"High nitrogen requirements",
		"Sensitive to drought during pollination",
		"Consider pest management for corn borer",
	},
	"soybeans": {
		"Fixes nitrogen for following crops",
		"Good for weed management",
		"Monitor for soybean cyst nematode",
		"Requires adequate phosphorus and potassium",
	},
	"wheat": {
		"Provides early season ground cover",
		"Good for erosion control",
		"Monitor for fungal diseases",
		"Consider variety selection for local climate",
	},
	"cotton": {
		"Requires warm growing season",
		"Deep rooting improves soil structure",
		"Monitor for bollworm and other pests",
		"Requires careful water management",
	},
}

var benefitDescriptions = map[string]string{
	"nitrogen_fixation":    "Fixes atmospheric nitrogen",
	"nitrogen_utilization": "Efficiently uses soil nitrogen",
	"pest_break":           "Breaks pest and disease cycles",
	"soil_structure":       "Improves soil structure",
	"weed_control":         "Helps control weeds",
	"soil_health":          "Enhances overall soil health",
	"early_harvest":        "Allows early harvest",
	"cover_protection":     "Provides soil cover protection",
	"pest_management":      "Aids in pest management",
	"deep_rooting":         "Deep roots improve soil aeration",
	"soil_aeration":        "Improves soil aeration",
	"pest_diversity":       "Promotes beneficial pest diversity",
}

// rotationBenefitTexts renders a crop's benefit keys as readable text.
func rotationBenefitTexts(cropType string) []string {
	kb, ok := rotationKnowledge[cropType]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(kb.Benefits))
	for _, key := range kb.Benefits {
		if desc, ok := benefitDescriptions[key]; ok {
			out = append(out, desc)
		} else {
			out = append(out, key)
		}
	}
	return out
}
