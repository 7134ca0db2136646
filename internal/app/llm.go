package app

import (
	"context"

	"ipodeck/internal/ai"
	"ipodeck/internal/model"
)

// LLMClient is the slice of the AI client the services consume; tests plug
// in fakes here.
type LLMClient interface {
	Complete(ctx context.Context, model string, messages []ai.ChatMessage, maxTokens int) (string, error)
	CompleteJSON(ctx context.Context, model string, messages []ai.ChatMessage) (string, error)
	StreamComplete(ctx context.Context, model string, messages []ai.ChatMessage, maxTokens int, onChunk func(string) error) (string, error)
}

// HistoryCache mirrors the Redis-backed history cache; a nil cache disables
// caching entirely.
type HistoryCache interface {
	GetHistory(ctx context.Context, conversationID string) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, conversationID string, messages []model.Message) error
	DeleteHistory(ctx context.Context, conversationID string) error
	MarkDirty(ctx context.Context, conversationID string) error
	IsDirty(ctx context.Context, conversationID string) (bool, error)
}
