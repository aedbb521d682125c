package chat

import "fmt"

// Conversation types the assistant understands.
const (
	TypeGeneral            = "general"
	TypePropertyInquiry    = "property_inquiry"
	TypeSoilAnalysis       = "soil_analysis"
	TypeCropRecommendation = "crop_recommendation"
	TypeLeaseAssistance    = "lease_assistance"
	TypeTaxOptimization    = "tax_optimization"
)

const basePrompt = `You are Teddy, an AI assistant for a land intelligence platform. ` +
	`You help landowners, farmers, and hunters make informed decisions about rural properties. ` +
	`You have access to property data, soil information, agricultural insights, and market trends. ` +
	`Be helpful, accurate, and provide actionable insights.`

var typePrompts = map[string]string{
	TypeGeneral:            "Answer questions about land management, agriculture, and property optimization.",
	TypeSoilAnalysis:       "Focus on soil quality, composition, and agricultural potential.",
	TypeCropRecommendation: "Provide crop recommendations based on soil, climate, and market conditions.",
	TypeLeaseAssistance:    "Help with agricultural lease terms, pricing, and negotiations.",
	TypeTaxOptimization:    "Provide information about Section 180 tax deductions and other agricultural tax benefits.",
}

// systemPrompt builds the full system prompt for a conversation type.
func systemPrompt(conversationType, propertyID string) string {
	if conversationType == TypePropertyInquiry {
		return fmt.Sprintf("%s\n\nYou are discussing property %s. Provide detailed insights about this specific property.",
			basePrompt, propertyID)
	}
	tp, ok := typePrompts[conversationType]
	if !ok {
		tp = typePrompts[TypeGeneral]
	}
	return basePrompt + "\n\n" + tp
}

var followUpSuggestions = map[string][]string{
	TypeGeneral: {
		"Tell me about soil quality analysis",
		"What crops are best for my region?",
		"How can I optimize my land revenue?",
	},
	TypePropertyInquiry: {
		"What crops would grow best here?",
		"What's the lease value for this property?",
		"Is this property eligible for Section 180?",
	},
	TypeSoilAnalysis: {
		"What amendments would improve soil quality?",
		"Compare with nearby properties",
		"Show historical soil data",
	},
	TypeCropRecommendation: {
		"What's the expected yield?",
		"Show market prices for these crops",
		"What's the planting calendar?",
	},
	TypeLeaseAssistance: {
		"Generate a lease agreement template",
		"What are typical lease terms in this area?",
		"How do I find qualified farmers?",
	},
	TypeTaxOptimization: {
		"Calculate my Section 180 deduction",
		"What documentation do I need?",
		"Show other tax incentives",
	},
}

// suggestions returns follow-up prompts for a conversation type.
func suggestions(conversationType string) []string {
	if s, ok := followUpSuggestions[conversationType]; ok {
		return s
	}
	return followUpSuggestions[TypeGeneral]
}
