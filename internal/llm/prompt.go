package llm

import "strings"

// AnalysisSystemPrompt frames the model as an agricultural land analyst.
const AnalysisSystemPrompt = `You are an expert agricultural land analyst. ` +
	`You evaluate rural and agricultural properties using parcel records, ` +
	`soil surveys, crop history, land cover and climate data. Be specific, ` +
	`cite the numbers you are given, and never invent data that is not in ` +
	`the property summary.`

// Analysis section headings, in the order the response should cover them.
var analysisSections = []string{
	"1. Soil Quality Assessment",
	"2. Agricultural Potential",
	"3. Land Use Optimization",
	"4. Investment Analysis",
	"5. Regulatory and Tax Opportunities",
}

// BuildAnalysisPrompt assembles the completion prompt from a property
// summary produced by the narrative summarizer.
func BuildAnalysisPrompt(summary string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following property and provide a professional assessment.\n\n")
	sb.WriteString("PROPERTY DATA:\n")
	sb.WriteString(summary)
	sb.WriteString("\n\nStructure your analysis under these headings:\n")
	for _, section := range analysisSections {
		sb.WriteString(section)
		sb.WriteString("\n")
	}
	sb.WriteString("\nWhere the property data marks a category as unavailable, ")
	sb.WriteString("say so plainly instead of speculating.")
	return sb.String()
}
