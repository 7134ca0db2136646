package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"ipodeck/internal/model"
)

func buildAnalysisPrompt(filename, fullText string) string {
	var b strings.Builder
	b.WriteString("You are an IPO readiness analyst. Evaluate the following pitch deck ")
	fmt.Fprintf(&b, "(%s) against the criteria below and respond with a single JSON object.\n\n", filename)

	b.WriteString("Evaluation criteria (score each 0-10):\n")
	for _, c := range criteriaDefinitions {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Description)
	}

	b.WriteString(`
The JSON object must have exactly these fields:
- company_metadata: {company_name, industry, founding_year, stage, employee_count}
- criterion_scores: array of eight objects {name, score, rationale, strengths, weaknesses},
  one per criterion above, using the exact criterion names
- executive_summary: {overall_assessment, key_highlights, critical_gaps, recommendation}
- risk_assessment: {key_risks, information_gaps, risk_level}
- follow_up_questions: {questions, priority_areas}
- financial_highlights: object of key financial metrics found in the deck
- competitive_positioning: string
- confidence_score: number between 0 and 1

Score only from evidence in the document. Missing information lowers the
relevant criterion score and belongs in information_gaps.

Document text:
`)
	b.WriteString(fullText)
	return b.String()
}

func buildChatPrompt(
	entryText string,
	result *model.AnalysisResult,
	summary *model.Summary,
	history []model.Message,
	question string,
) string {
	companyName := result.CompanyMetadata.CompanyName
	if companyName == "" {
		companyName = "the company"
	}

	analysisJSON, err := json.Marshal(result)
	if err != nil {
		analysisJSON = []byte("{}")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an analyst assistant answering questions about the IPO readiness analysis of %s.\n", companyName)
	b.WriteString("Ground every answer in the document and the analysis below. If the information is not there, say so.\n\n")

	b.WriteString("## Pitch Deck Text\n")
	b.WriteString(entryText)
	b.WriteString("\n\n## Analysis Result\n")
	b.Write(analysisJSON)
	b.WriteString("\n")

	if summary != nil {
		b.WriteString("\n## Previous Conversation Summary\n")
		fmt.Fprintf(&b, "Key Topics: %s\n", strings.Join(summary.KeyTopics, ", "))
		fmt.Fprintf(&b, "Important Questions: %s\n", strings.Join(summary.ImportantQuestions, ", "))
		fmt.Fprintf(&b, "Key Insights: %s\n", strings.Join(summary.KeyInsights, ", "))
		fmt.Fprintf(&b, "User Concerns: %s\n", strings.Join(summary.UserConcerns, ", "))
		fmt.Fprintf(&b, "Summary: %s\n", summary.SummaryText)
	}

	if len(history) > 0 {
		b.WriteString("\n## Recent Conversation\n")
		b.WriteString(renderTranscript(history))
	}

	b.WriteString("\n## Question\n")
	b.WriteString(question)
	return b.String()
}

func buildSummaryPrompt(companyName string, previous *model.Summary, messages []model.Message) string {
	if companyName == "" {
		companyName = "the company"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Condense the following conversation about %s's IPO readiness analysis.\n", companyName)
	if previous != nil && previous.SummaryText != "" {
		b.WriteString("\nEarlier summary to merge in:\n")
		b.WriteString(previous.SummaryText)
		b.WriteString("\n")
	}
	b.WriteString("\nConversation:\n")
	b.WriteString(renderTranscript(messages))
	b.WriteString(`
Respond with a single JSON object with these fields, each list capped at five entries:
- key_topics: main topics discussed
- important_questions: questions asked by the user
- key_insights: key insights already surfaced
- user_concerns: user concerns or focus areas
- summary_text: concise summary paragraph, at most 150 words
`)
	return b.String()
}

func renderTranscript(messages []model.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		role := "User"
		if msg.Role == model.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", role, msg.Content)
	}
	return b.String()
}
