package model

import "time"

type CompanyMetadata struct {
	CompanyName   string `json:"company_name,omitempty"`
	Industry      string `json:"industry,omitempty"`
	FoundingYear  int    `json:"founding_year,omitempty"`
	Stage         string `json:"stage,omitempty"`
	EmployeeCount int    `json:"employee_count,omitempty"`
}

type CriterionScore struct {
	Name       string   `json:"name"`
	Score      float64  `json:"score"`
	Rationale  string   `json:"rationale"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

type ExecutiveSummary struct {
	OverallAssessment string   `json:"overall_assessment"`
	KeyHighlights     []string `json:"key_highlights"`
	CriticalGaps      []string `json:"critical_gaps"`
	Recommendation    string   `json:"recommendation"`
}

type RiskAssessment struct {
	KeyRisks        []string `json:"key_risks"`
	InformationGaps []string `json:"information_gaps"`
	RiskLevel       string   `json:"risk_level"`
}

type FollowUpQuestions struct {
	Questions     []string `json:"questions"`
	PriorityAreas []string `json:"priority_areas"`
}

// AnalysisResult is immutable once produced; the store hands out copies only.
type AnalysisResult struct {
	AnalysisID             string                 `json:"analysis_id"`
	Filename               string                 `json:"filename"`
	CreatedAt              time.Time              `json:"created_at"`
	CompanyMetadata        CompanyMetadata        `json:"company_metadata"`
	OverallScore           float64                `json:"overall_ipo_score"`
	ReadinessLevel         string                 `json:"readiness_level"`
	CriterionScores        []CriterionScore       `json:"criterion_scores"`
	ExecutiveSummary       ExecutiveSummary       `json:"executive_summary"`
	RiskAssessment         RiskAssessment         `json:"risk_assessment"`
	FollowUpQuestions      FollowUpQuestions      `json:"follow_up_questions"`
	FinancialHighlights    map[string]interface{} `json:"financial_highlights"`
	CompetitivePositioning string                 `json:"competitive_positioning"`
	ProcessingTimeSeconds  float64                `json:"processing_time_seconds"`
	ConfidenceScore        float64                `json:"confidence_score"`
}
