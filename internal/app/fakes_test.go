package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"ipodeck/internal/ai"
	"ipodeck/internal/pkg/pdfextract"
)

// fakeLLM satisfies LLMClient and records call counts plus the peak number
// of in-flight calls, so tests can assert per-conversation serialization.
type fakeLLM struct {
	mu            sync.Mutex
	completeCalls int
	jsonCalls     int
	active        int
	maxActive     int

	delay   time.Duration
	replyFn func(prompt string) (string, error)
	jsonFn  func(prompt string) (string, error)
}

func (f *fakeLLM) enter() {
	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeLLM) leave() {
	f.mu.Lock()
	f.active--
	f.mu.Unlock()
}

func (f *fakeLLM) Complete(_ context.Context, _ string, messages []ai.ChatMessage, _ int) (string, error) {
	f.mu.Lock()
	f.completeCalls++
	f.mu.Unlock()
	f.enter()
	defer f.leave()
	if f.replyFn != nil {
		return f.replyFn(lastContent(messages))
	}
	return "fake reply", nil
}

func (f *fakeLLM) CompleteJSON(_ context.Context, _ string, messages []ai.ChatMessage) (string, error) {
	f.mu.Lock()
	f.jsonCalls++
	f.mu.Unlock()
	f.enter()
	defer f.leave()
	if f.jsonFn != nil {
		return f.jsonFn(lastContent(messages))
	}
	return validAnalysisJSON(8), nil
}

func (f *fakeLLM) StreamComplete(ctx context.Context, model string, messages []ai.ChatMessage, maxTokens int, onChunk func(string) error) (string, error) {
	full, err := f.Complete(ctx, model, messages, maxTokens)
	if err != nil {
		return "", err
	}
	for _, part := range strings.SplitAfter(full, " ") {
		if err := onChunk(part); err != nil {
			return "", err
		}
	}
	return full, nil
}

func (f *fakeLLM) calls() (complete, jsonCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completeCalls, f.jsonCalls
}

func lastContent(messages []ai.ChatMessage) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}

// validAnalysisJSON builds a schema-conforming model response with every
// criterion scored the same.
func validAnalysisJSON(score float64) string {
	return analysisJSONWithScores([]float64{score, score, score, score, score, score, score, score})
}

func analysisJSONWithScores(scores []float64) string {
	criterionScores := make([]map[string]interface{}, 0, len(scores))
	for i, s := range scores {
		name := criteriaDefinitions[i%len(criteriaDefinitions)].Name
		criterionScores = append(criterionScores, map[string]interface{}{
			"name":       name,
			"score":      s,
			"rationale":  fmt.Sprintf("rationale for %s", name),
			"strengths":  []string{"s1"},
			"weaknesses": []string{"w1"},
		})
	}
	payload := map[string]interface{}{
		"company_metadata": map[string]interface{}{
			"company_name": "Acme Robotics",
			"industry":     "Robotics",
		},
		"criterion_scores": criterionScores,
		"executive_summary": map[string]interface{}{
			"overall_assessment": "solid",
			"recommendation":     "proceed",
		},
		"risk_assessment": map[string]interface{}{
			"key_risks":  []string{"market"},
			"risk_level": "Medium",
		},
		"follow_up_questions": map[string]interface{}{
			"questions": []string{"what about churn?"},
		},
		"financial_highlights":    map[string]interface{}{"arr": "1M"},
		"competitive_positioning": "niche leader",
		"confidence_score":        0.8,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func validSummaryJSON() string {
	return `{"key_topics":["scores"],"important_questions":["why?"],"key_insights":["traction is thin"],"user_concerns":["cap table"],"summary_text":"The user probed scoring and ownership."}`
}

func fakeExtract(text string) Extractor {
	return func(r io.Reader) (*pdfextract.Document, error) {
		if _, err := io.Copy(io.Discard, r); err != nil {
			return nil, err
		}
		return &pdfextract.Document{Text: text, Pages: 3}, nil
	}
}

func mustSendOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
