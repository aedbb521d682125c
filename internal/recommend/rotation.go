package recommend

import (
	"fmt"
	"sort"
	"strings"
)

// YearPattern is the crops planted in one year, in rotation order.
type YearPattern struct {
	Year     int      `json:"year"`
	Sequence []string `json:"sequence"`
}

// RotationQuality scores how healthy the observed rotation is.
type RotationQuality struct {
	Score    int      `json:"score"`
	Issues   []string `json:"issues"`
	Benefits []string `json:"benefits"`
}

// RotationAnalysis is the full rotation-pattern assessment.
type RotationAnalysis struct {
	Patterns        []YearPattern   `json:"patterns"`
	Quality         RotationQuality `json:"analysis"`
	Recommendations []string        `json:"recommendations"`
}

// cropSeason is one normalized crop history entry.
type cropSeason struct {
	Year     int
	CropType string
	Sequence int
}

// analyzeRotationPatterns groups the history into per-year sequences
// and evaluates rotation quality.
func analyzeRotationPatterns(history []cropSeason) RotationAnalysis {
	if len(history) == 0 {
		return RotationAnalysis{
			Recommendations: []string{"Establish a crop rotation plan to improve soil health"},
		}
	}

	sorted := make([]cropSeason, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})

	var patterns []YearPattern
	for _, s := range sorted {
		crop := strings.ToLower(s.CropType)
		if n := len(patterns); n > 0 && patterns[n-1].Year == s.Year {
			patterns[n-1].Sequence = append(patterns[n-1].Sequence, crop)
		} else {
			patterns = append(patterns, YearPattern{Year: s.Year, Sequence: []string{crop}})
		}
	}

	return RotationAnalysis{
		Patterns:        patterns,
		Quality:         evaluateRotationQuality(patterns),
		Recommendations: rotationRecommendations(patterns),
	}
}

// evaluateRotationQuality starts from a base of 50, penalizes
// monoculture years and rewards diversity and beneficial successions.
func evaluateRotationQuality(patterns []YearPattern) RotationQuality {
	if len(patterns) == 0 {
		return RotationQuality{Issues: []string{"No rotation history available"}}
	}

	q := RotationQuality{Score: 50}

	for _, p := range patterns {
		distinct := make(map[string]struct{})
		for _, c := range p.Sequence {
			distinct[c] = struct{}{}
		}
		if len(distinct) == 1 && len(p.Sequence) >= 1 {
			q.Issues = append(q.Issues, fmt.Sprintf("Monoculture detected in %d", p.Year))
			q.Score -= 20
		} else {
			q.Benefits = append(q.Benefits, fmt.Sprintf("Crop diversity in %d", p.Year))
			q.Score += 10
		}
	}

	for i := 0; i < len(patterns)-1; i++ {
		for _, curr := range patterns[i].Sequence {
			kb, ok := rotationKnowledge[curr]
			if !ok {
				continue
			}
			for _, next := range patterns[i+1].Sequence {
				if contains(kb.After, next) {
					q.Benefits = append(q.Benefits, fmt.Sprintf("Beneficial rotation: %s to %s", curr, next))
					q.Score += 15
				}
			}
		}
	}

	if q.Score > 100 {
		q.Score = 100
	}
	if q.Score < 0 {
		q.Score = 0
	}
	return q
}

// rotationRecommendations suggests next steps from the observed patterns.
func rotationRecommendations(patterns []YearPattern) []string {
	if len(patterns) == 0 {
		return []string{"Establish a crop rotation plan to improve soil health"}
	}

	recent := patterns[len(patterns)-1].Sequence
	if len(recent) == 0 {
		return []string{"Start with a diverse crop rotation including legumes"}
	}

	var recommendations []string

	suggested := make(map[string]struct{})
	var suggestedOrder []string
	for _, crop := range recent {
		kb, ok := rotationKnowledge[crop]
		if !ok {
			continue
		}
		for _, next := range kb.After {
			if _, seen := suggested[next]; !seen {
				suggested[next] = struct{}{}
				suggestedOrder = append(suggestedOrder, next)
			}
		}
	}
	if len(suggestedOrder) > 0 {
		recommendations = append(recommendations,
			"Consider rotating to: "+strings.Join(suggestedOrder, ", "))
	}

	historical := make(map[string]struct{})
	for _, p := range patterns {
		for _, c := range p.Sequence {
			historical[c] = struct{}{}
		}
	}
	if _, ok := historical["soybeans"]; !ok {
		recommendations = append(recommendations, "Consider adding soybeans for nitrogen fixation")
	}
	if len(historical) < 3 {
		recommendations = append(recommendations,
			"Increase crop diversity to improve soil health and pest management")
	}

	return recommendations
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
