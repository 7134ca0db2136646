package app

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"ipodeck/internal/store"
)

const testMaxUpload = 20 * 1024 * 1024

func newAnalysisFixture(llm *fakeLLM, deckText string) (*AnalysisService, *store.AnalysisStore) {
	analyses := store.NewAnalysisStore()
	svc := NewAnalysisService(analyses, llm, fakeExtract(deckText), "test-model", testMaxUpload, zap.NewNop())
	return svc, analyses
}

func analyzeInput(filename string) AnalyzeInput {
	return AnalyzeInput{
		Filename: filename,
		Size:     1024,
		Reader:   strings.NewReader("%PDF-1.4 fake"),
	}
}

func TestAnalyzeComputesCompositeAndBand(t *testing.T) {
	llm := &fakeLLM{}
	svc, analyses := newAnalysisFixture(llm, "deck text")

	result, err := svc.Analyze(context.Background(), analyzeInput("deck.pdf"))
	mustSendOK(t, err)

	if result.AnalysisID == "" {
		t.Fatal("expected a non-empty analysis id")
	}
	if math.Abs(result.OverallScore-80) > 1e-9 {
		t.Errorf("overall score = %v, want 80", result.OverallScore)
	}
	if result.ReadinessLevel != "Ready" {
		t.Errorf("readiness level = %q, want Ready", result.ReadinessLevel)
	}
	if len(result.CriterionScores) != 8 {
		t.Errorf("expected 8 criterion scores, got %d", len(result.CriterionScores))
	}
	entry, ok := analyses.Get(result.AnalysisID)
	if !ok {
		t.Fatal("result was not stored")
	}
	if entry.FullText != "deck text" {
		t.Errorf("stored full text = %q", entry.FullText)
	}
}

func TestAnalyzeCompositeMatchesMeanForUnevenScores(t *testing.T) {
	scores := []float64{5, 6, 7, 8, 4, 3, 9, 10}
	llm := &fakeLLM{jsonFn: func(string) (string, error) {
		return analysisJSONWithScores(scores), nil
	}}
	svc, _ := newAnalysisFixture(llm, "deck text")

	result, err := svc.Analyze(context.Background(), analyzeInput("deck.pdf"))
	mustSendOK(t, err)

	var sum float64
	for _, s := range scores {
		sum += s
	}
	want := sum * 10 / 8
	if math.Abs(result.OverallScore-want) > 0.05 {
		t.Errorf("overall score = %v, want %v within rounding", result.OverallScore, want)
	}
	if result.ReadinessLevel != readinessLevel(result.OverallScore) {
		t.Errorf("band %q does not match score %v", result.ReadinessLevel, result.OverallScore)
	}
}

func TestAnalyzeValidationBeforeModelCall(t *testing.T) {
	cases := []struct {
		name  string
		input AnalyzeInput
		want  error
	}{
		{"non-pdf extension", AnalyzeInput{Filename: "deck.txt", Size: 10, Reader: strings.NewReader("x")}, ErrInvalidFileType},
		{"oversize upload", AnalyzeInput{Filename: "deck.pdf", Size: testMaxUpload + 1, Reader: strings.NewReader("x")}, ErrFileTooLarge},
		{"missing filename", AnalyzeInput{Filename: "  ", Size: 10, Reader: strings.NewReader("x")}, ErrInvalidInput},
		{"nil reader", AnalyzeInput{Filename: "deck.pdf", Size: 10}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := &fakeLLM{}
			svc, analyses := newAnalysisFixture(llm, "deck text")

			_, err := svc.Analyze(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			if _, jsonCalls := llm.calls(); jsonCalls != 0 {
				t.Error("validation failure must not reach the model")
			}
			if analyses.Len() != 0 {
				t.Error("nothing should be stored on validation failure")
			}
		})
	}
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	llm := &fakeLLM{}
	svc, _ := newAnalysisFixture(llm, "   \n ")

	_, err := svc.Analyze(context.Background(), analyzeInput("deck.pdf"))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("error = %v, want ErrEmptyDocument", err)
	}
	if _, jsonCalls := llm.calls(); jsonCalls != 0 {
		t.Error("empty document must not reach the model")
	}
}

func TestAnalyzeModelFailure(t *testing.T) {
	llm := &fakeLLM{jsonFn: func(string) (string, error) {
		return "", errors.New("upstream 500")
	}}
	svc, analyses := newAnalysisFixture(llm, "deck text")

	_, err := svc.Analyze(context.Background(), analyzeInput("deck.pdf"))
	if !errors.Is(err, ErrModelCall) {
		t.Fatalf("error = %v, want ErrModelCall", err)
	}
	if analyses.Len() != 0 {
		t.Error("nothing should be stored on model failure")
	}
}

func TestAnalyzeMalformedResponses(t *testing.T) {
	badName := strings.Replace(validAnalysisJSON(5), "Equity Cap Table", "Equity Something", 1)
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "this is prose, not json"},
		{"seven criteria", analysisJSONWithScores([]float64{1, 2, 3, 4, 5, 6, 7})},
		{"score above range", analysisJSONWithScores([]float64{11, 2, 3, 4, 5, 6, 7, 8})},
		{"score below range", analysisJSONWithScores([]float64{-1, 2, 3, 4, 5, 6, 7, 8})},
		{"unknown criterion name", badName},
		{"confidence out of range", strings.Replace(validAnalysisJSON(5), `"confidence_score":0.8`, `"confidence_score":1.8`, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := &fakeLLM{jsonFn: func(string) (string, error) { return tc.raw, nil }}
			svc, analyses := newAnalysisFixture(llm, "deck text")

			_, err := svc.Analyze(context.Background(), analyzeInput("deck.pdf"))
			if !errors.Is(err, ErrMalformedModelResponse) {
				t.Fatalf("error = %v, want ErrMalformedModelResponse", err)
			}
			if analyses.Len() != 0 {
				t.Error("malformed output must never be partially stored")
			}
		})
	}
}

func TestAnalyzeReuploadGetsNewID(t *testing.T) {
	llm := &fakeLLM{}
	svc, analyses := newAnalysisFixture(llm, "deck text")

	first, err := svc.Analyze(context.Background(), analyzeInput("deck.pdf"))
	mustSendOK(t, err)
	second, err := svc.Analyze(context.Background(), analyzeInput("deck.pdf"))
	mustSendOK(t, err)

	if first.AnalysisID == second.AnalysisID {
		t.Fatal("identical uploads must not share an analysis id")
	}
	if analyses.Len() != 2 {
		t.Fatalf("store holds %d entries, want 2", analyses.Len())
	}
}

func TestGetUnknownAnalysis(t *testing.T) {
	svc, _ := newAnalysisFixture(&fakeLLM{}, "deck text")
	if _, err := svc.Get("nope"); !errors.Is(err, ErrAnalysisNotFound) {
		t.Fatalf("error = %v, want ErrAnalysisNotFound", err)
	}
}
