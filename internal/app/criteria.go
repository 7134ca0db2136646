package app

import "ipodeck/internal/model"

const criterionCount = 8

// CriterionDefinition describes one of the eight fixed evaluation
// dimensions. Every criterion carries equal weight in the composite score.
type CriterionDefinition struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

var criteriaDefinitions = []CriterionDefinition{
	{
		Name:        "Basic Company Info",
		Description: "Company background, founding details, and key information",
		Weight:      12.5,
	},
	{
		Name:        "Mission & Core Business",
		Description: "Business model clarity and strategic focus",
		Weight:      12.5,
	},
	{
		Name:        "Defensibility / IP / MOAT",
		Description: "Competitive advantages and intellectual property",
		Weight:      12.5,
	},
	{
		Name:        "Regulatory Approvals & Compliance",
		Description: "Industry compliance and regulatory readiness",
		Weight:      12.5,
	},
	{
		Name:        "Commercial Traction & Validation",
		Description: "Market validation and customer traction",
		Weight:      12.5,
	},
	{
		Name:        "Segment-level Unit Economics",
		Description: "Financial metrics and unit economics analysis",
		Weight:      12.5,
	},
	{
		Name:        "Equity Cap Table",
		Description: "Ownership structure and equity distribution",
		Weight:      12.5,
	},
	{
		Name:        "Key Risks & Information Gaps",
		Description: "Risk assessment and information completeness",
		Weight:      12.5,
	},
}

// Criteria returns the fixed evaluation criteria in scoring order.
func Criteria() []CriterionDefinition {
	out := make([]CriterionDefinition, len(criteriaDefinitions))
	copy(out, criteriaDefinitions)
	return out
}

// compositeScore maps eight 0-10 criterion scores onto the 0-100 scale with
// equal weights. The model's own overall figure is never trusted.
func compositeScore(scores []model.CriterionScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.Score
	}
	return sum * 10 / float64(len(scores))
}

// readinessLevel buckets a composite score into its qualitative band:
// [0,40] Not Ready, (40,65] Developing, (65,85] Ready, (85,100] Highly Ready.
func readinessLevel(score float64) string {
	switch {
	case score <= 40:
		return "Not Ready"
	case score <= 65:
		return "Developing"
	case score <= 85:
		return "Ready"
	default:
		return "Highly Ready"
	}
}
