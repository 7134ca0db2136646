package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the condensed digest of the older portion of a conversation,
// regenerated periodically so that prompt size stays bounded.
type Summary struct {
	KeyTopics          []string  `json:"key_topics"`
	ImportantQuestions []string  `json:"important_questions"`
	KeyInsights        []string  `json:"key_insights"`
	UserConcerns       []string  `json:"user_concerns"`
	SummaryText        string    `json:"summary_text"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Conversation ties an append-only message sequence to exactly one analysis.
// SummarizedThrough counts the leading messages already folded into Summary;
// it never reaches closer than two messages to the end of the sequence.
// SummaryCheckpoint records the message count at the last summarization
// pass, so the next pass waits for genuinely new messages rather than
// re-counting the ones a pass kept out of its window.
type Conversation struct {
	ID                string    `json:"conversation_id"`
	AnalysisID        string    `json:"analysis_id"`
	Messages          []Message `json:"messages"`
	Summary           *Summary  `json:"summary,omitempty"`
	SummarizedThrough int       `json:"-"`
	SummaryCheckpoint int       `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
