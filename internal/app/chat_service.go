package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ipodeck/internal/ai"
	"ipodeck/internal/model"
	"ipodeck/internal/store"
)

const emptyReplyNotice = "The model returned an empty response."

type ChatService struct {
	analyses      *store.AnalysisStore
	conversations *store.ConversationStore
	historyCache  HistoryCache
	llm           LLMClient
	chatModel     string
	summaryModel  string

	summarizeEvery int
	keepRecent     int
	recentWindow   int
	maxReplyTokens int

	logger *zap.Logger
}

type ChatOptions struct {
	ChatModel      string
	SummaryModel   string
	SummarizeEvery int
	KeepRecent     int
	RecentWindow   int
	MaxReplyTokens int
}

type SendMessageInput struct {
	AnalysisID     string
	ConversationID string
	Content        string
}

type SendMessageResult struct {
	MessageID         string    `json:"message_id"`
	Content           string    `json:"content"`
	ConversationID    string    `json:"conversation_id"`
	AnalysisID        string    `json:"analysis_id"`
	SourcesReferenced []string  `json:"sources_referenced"`
	CreatedAt         time.Time `json:"timestamp"`
}

type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	AnalysisID     string    `json:"analysis_id"`
	MessageCount   int       `json:"message_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewChatService(
	analyses *store.AnalysisStore,
	conversations *store.ConversationStore,
	historyCache HistoryCache,
	llm LLMClient,
	opts ChatOptions,
	logger *zap.Logger,
) *ChatService {
	if opts.SummarizeEvery <= 0 {
		opts.SummarizeEvery = 6
	}
	if opts.KeepRecent <= 0 {
		opts.KeepRecent = 2
	}
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = 10
	}
	if opts.SummaryModel == "" {
		opts.SummaryModel = opts.ChatModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		analyses:       analyses,
		conversations:  conversations,
		historyCache:   historyCache,
		llm:            llm,
		chatModel:      opts.ChatModel,
		summaryModel:   opts.SummaryModel,
		summarizeEvery: opts.SummarizeEvery,
		keepRecent:     opts.KeepRecent,
		recentWindow:   opts.RecentWindow,
		maxReplyTokens: opts.MaxReplyTokens,
		logger:         logger,
	}
}

// Send runs one chat turn: append the user message, refresh the summary when
// due, ask the model, append its reply. The whole sequence holds the
// conversation lock so turns in one conversation never interleave.
func (s *ChatService) Send(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	return s.send(ctx, input, nil)
}

// Stream behaves like Send but forwards reply chunks as they arrive.
func (s *ChatService) Stream(ctx context.Context, input SendMessageInput, onChunk func(string) error) (*SendMessageResult, error) {
	if onChunk == nil {
		return nil, ErrInvalidInput
	}
	return s.send(ctx, input, onChunk)
}

func (s *ChatService) send(ctx context.Context, input SendMessageInput, onChunk func(string) error) (*SendMessageResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	if strings.TrimSpace(input.AnalysisID) == "" {
		return nil, ErrInvalidInput
	}

	// The analysis must exist before any conversation state is touched.
	entry, ok := s.analyses.Get(input.AnalysisID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	conversationID := strings.TrimSpace(input.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	conv := s.conversations.GetOrCreate(conversationID, input.AnalysisID)

	conv.Lock()
	defer conv.Unlock()

	if conv.AnalysisID != input.AnalysisID {
		return nil, ErrSessionNotFound
	}

	s.invalidateHistory(ctx, conversationID)

	prevLen := len(conv.Messages)
	prevUpdated := conv.UpdatedAt

	now := time.Now()
	conv.Messages = append(conv.Messages, model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: now,
	})
	conv.UpdatedAt = now

	s.maybeSummarize(ctx, &entry.Result, conv)

	recent := s.recentContext(conv)
	// The just-appended question goes into the prompt separately.
	if len(recent) > 0 {
		recent = recent[:len(recent)-1]
	}
	prompt := buildChatPrompt(entry.FullText, &entry.Result, conv.Summary, recent, content)
	messages := []ai.ChatMessage{{Role: model.RoleUser, Content: prompt}}

	var reply string
	var err error
	if onChunk != nil {
		reply, err = s.llm.StreamComplete(ctx, s.chatModel, messages, s.maxReplyTokens, onChunk)
	} else {
		reply, err = s.llm.Complete(ctx, s.chatModel, messages, s.maxReplyTokens)
	}
	if err != nil {
		// A failed turn leaves no partial state: the question comes back
		// out of the history.
		conv.Messages = conv.Messages[:prevLen]
		conv.UpdatedAt = prevUpdated
		s.invalidateHistory(ctx, conversationID)
		return nil, fmt.Errorf("%w: %v", ErrModelCall, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = emptyReplyNotice
	}

	assistant := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	conv.Messages = append(conv.Messages, assistant)
	conv.UpdatedAt = assistant.CreatedAt

	s.invalidateHistory(ctx, conversationID)

	return &SendMessageResult{
		MessageID:         assistant.ID,
		Content:           reply,
		ConversationID:    conversationID,
		AnalysisID:        input.AnalysisID,
		SourcesReferenced: extractSources(reply),
		CreatedAt:         assistant.CreatedAt,
	}, nil
}

// maybeSummarize folds the older portion of the conversation into the
// summary once summarizeEvery messages have been appended since the
// previous pass. The cadence counts against SummaryCheckpoint, not
// SummarizedThrough: the keepRecent messages a pass leaves uncovered must
// not shorten the interval to the next one. The caller holds the
// conversation lock.
func (s *ChatService) maybeSummarize(ctx context.Context, result *model.AnalysisResult, conv *store.Conversation) {
	pending := len(conv.Messages) - conv.SummaryCheckpoint
	if pending < s.summarizeEvery {
		return
	}
	upTo := len(conv.Messages) - s.keepRecent
	if upTo <= conv.SummarizedThrough {
		return
	}

	window := conv.Messages[conv.SummarizedThrough:upTo]
	summary := s.summarize(ctx, result.CompanyMetadata.CompanyName, conv.Summary, window)
	conv.Summary = summary
	conv.SummarizedThrough = upTo
	conv.SummaryCheckpoint = len(conv.Messages)
	s.logger.Debug("conversation summarized",
		zap.String("conversation_id", conv.ID),
		zap.Int("covered_messages", upTo),
	)
}

// summarize asks the model for a structured digest. A failed or malformed
// summary degrades to a placeholder rather than failing the chat turn.
func (s *ChatService) summarize(ctx context.Context, companyName string, previous *model.Summary, window []model.Message) *model.Summary {
	prompt := buildSummaryPrompt(companyName, previous, window)
	raw, err := s.llm.CompleteJSON(ctx, s.summaryModel, []ai.ChatMessage{
		{Role: model.RoleUser, Content: prompt},
	})
	if err != nil {
		s.logger.Warn("summary call failed", zap.Error(err))
		return placeholderSummary(previous)
	}

	var parsed struct {
		KeyTopics          []string `json:"key_topics"`
		ImportantQuestions []string `json:"important_questions"`
		KeyInsights        []string `json:"key_insights"`
		UserConcerns       []string `json:"user_concerns"`
		SummaryText        string   `json:"summary_text"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		s.logger.Warn("summary response malformed", zap.Error(err))
		return placeholderSummary(previous)
	}

	return &model.Summary{
		KeyTopics:          capList(parsed.KeyTopics, 5),
		ImportantQuestions: capList(parsed.ImportantQuestions, 5),
		KeyInsights:        capList(parsed.KeyInsights, 5),
		UserConcerns:       capList(parsed.UserConcerns, 5),
		SummaryText:        parsed.SummaryText,
		UpdatedAt:          time.Now(),
	}
}

// recentContext returns the raw messages the prompt should carry: everything
// after the summarized prefix, capped at the recent window.
func (s *ChatService) recentContext(conv *store.Conversation) []model.Message {
	recent := conv.Messages[conv.SummarizedThrough:]
	if len(recent) > s.recentWindow {
		recent = recent[len(recent)-s.recentWindow:]
	}
	return recent
}

func (s *ChatService) ListConversations(analysisID string) ([]ConversationSummary, error) {
	if strings.TrimSpace(analysisID) == "" {
		return nil, ErrInvalidInput
	}
	if _, ok := s.analyses.Get(analysisID); !ok {
		return nil, ErrAnalysisNotFound
	}

	summaries := []ConversationSummary{}
	for _, conv := range s.conversations.ListByAnalysisID(analysisID) {
		snap := conv.Snapshot()
		summaries = append(summaries, ConversationSummary{
			ConversationID: snap.ID,
			AnalysisID:     snap.AnalysisID,
			MessageCount:   len(snap.Messages),
			CreatedAt:      snap.CreatedAt,
			UpdatedAt:      snap.UpdatedAt,
		})
	}
	return summaries, nil
}

func (s *ChatService) History(ctx context.Context, conversationID string) ([]model.Message, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, ErrInvalidInput
	}
	conv, ok := s.conversations.Get(conversationID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, conversationID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, conversationID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	snap := conv.Snapshot()
	if s.historyCache != nil {
		if dirty, err := s.historyCache.IsDirty(ctx, conversationID); err == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, conversationID, snap.Messages)
		}
	}
	return snap.Messages, nil
}

func (s *ChatService) invalidateHistory(ctx context.Context, conversationID string) {
	if s.historyCache == nil {
		return
	}
	_ = s.historyCache.MarkDirty(ctx, conversationID)
	_ = s.historyCache.DeleteHistory(ctx, conversationID)
}

func placeholderSummary(previous *model.Summary) *model.Summary {
	summary := &model.Summary{
		SummaryText: "Summary unavailable due to processing error",
		UpdatedAt:   time.Now(),
	}
	if previous != nil {
		summary.KeyTopics = previous.KeyTopics
		summary.ImportantQuestions = previous.ImportantQuestions
		summary.KeyInsights = previous.KeyInsights
		summary.UserConcerns = previous.UserConcerns
	}
	return summary
}

func capList(items []string, limit int) []string {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}

// extractSources flags which parts of the analysis a reply leans on, by the
// same keyword classes the dashboard links to.
func extractSources(reply string) []string {
	lower := strings.ToLower(reply)
	var sources []string

	classes := []struct {
		label    string
		keywords []string
	}{
		{"IPO Scores", []string{"score", "scoring", "rating"}},
		{"Financial Highlights", []string{"financial", "revenue", "profit", "funding"}},
		{"Risk Assessment", []string{"risk", "concern", "weakness"}},
		{"Strengths Analysis", []string{"strength", "advantage", "positive"}},
		{"Recommendations", []string{"recommendation", "suggest", "should"}},
		{"Market Analysis", []string{"competitive", "market", "industry"}},
	}
	for _, class := range classes {
		for _, kw := range class.keywords {
			if strings.Contains(lower, kw) {
				sources = append(sources, class.label)
				break
			}
		}
	}
	return sources
}
