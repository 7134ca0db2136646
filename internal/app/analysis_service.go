package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ipodeck/internal/ai"
	"ipodeck/internal/model"
	"ipodeck/internal/pkg/pdfextract"
	"ipodeck/internal/store"
)

// Extractor turns an uploaded PDF stream into plain text.
type Extractor func(r io.Reader) (*pdfextract.Document, error)

type AnalysisService struct {
	analyses       *store.AnalysisStore
	llm            LLMClient
	extract        Extractor
	model          string
	maxUploadBytes int64
	logger         *zap.Logger
}

type AnalyzeInput struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

func NewAnalysisService(
	analyses *store.AnalysisStore,
	llm LLMClient,
	extract Extractor,
	llmModel string,
	maxUploadBytes int64,
	logger *zap.Logger,
) *AnalysisService {
	if extract == nil {
		extract = pdfextract.Extract
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 * 1024 * 1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		analyses:       analyses,
		llm:            llm,
		extract:        extract,
		model:          llmModel,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// structuredAnalysis is the wire schema expected from the model. It is
// validated strictly before anything is stored.
type structuredAnalysis struct {
	CompanyMetadata        model.CompanyMetadata   `json:"company_metadata"`
	CriterionScores        []model.CriterionScore  `json:"criterion_scores"`
	ExecutiveSummary       model.ExecutiveSummary  `json:"executive_summary"`
	RiskAssessment         model.RiskAssessment    `json:"risk_assessment"`
	FollowUpQuestions      model.FollowUpQuestions `json:"follow_up_questions"`
	FinancialHighlights    map[string]interface{}  `json:"financial_highlights"`
	CompetitivePositioning string                  `json:"competitive_positioning"`
	ConfidenceScore        float64                 `json:"confidence_score"`
}

// Analyze validates the upload, extracts its text, scores it through one
// model call, and stores the result under a fresh analysis ID.
func (s *AnalysisService) Analyze(ctx context.Context, input AnalyzeInput) (*model.AnalysisResult, error) {
	start := time.Now()

	if input.Reader == nil || strings.TrimSpace(input.Filename) == "" {
		return nil, ErrInvalidInput
	}
	if !strings.EqualFold(filepath.Ext(input.Filename), ".pdf") {
		return nil, ErrInvalidFileType
	}
	if input.Size > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	doc, err := s.extract(io.LimitReader(input.Reader, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}
	text := strings.TrimSpace(doc.Text)
	if text == "" {
		return nil, ErrEmptyDocument
	}
	s.logger.Info("deck extracted",
		zap.String("filename", input.Filename),
		zap.Int("pages", doc.Pages),
		zap.Int("words", doc.WordCount()),
	)

	prompt := buildAnalysisPrompt(input.Filename, text)
	raw, err := s.llm.CompleteJSON(ctx, s.model, []ai.ChatMessage{
		{Role: model.RoleUser, Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	parsed, err := parseStructuredAnalysis(raw)
	if err != nil {
		return nil, err
	}

	overall := roundScore(compositeScore(parsed.CriterionScores))
	result := model.AnalysisResult{
		AnalysisID:             uuid.NewString(),
		Filename:               input.Filename,
		CreatedAt:              time.Now(),
		CompanyMetadata:        parsed.CompanyMetadata,
		OverallScore:           overall,
		ReadinessLevel:         readinessLevel(overall),
		CriterionScores:        parsed.CriterionScores,
		ExecutiveSummary:       parsed.ExecutiveSummary,
		RiskAssessment:         parsed.RiskAssessment,
		FollowUpQuestions:      parsed.FollowUpQuestions,
		FinancialHighlights:    parsed.FinancialHighlights,
		CompetitivePositioning: parsed.CompetitivePositioning,
		ProcessingTimeSeconds:  time.Since(start).Seconds(),
		ConfidenceScore:        parsed.ConfidenceScore,
	}

	s.analyses.Put(store.AnalysisEntry{Result: result, FullText: text})
	s.logger.Info("analysis stored",
		zap.String("analysis_id", result.AnalysisID),
		zap.Float64("overall_score", result.OverallScore),
		zap.String("readiness_level", result.ReadinessLevel),
	)
	return &result, nil
}

func (s *AnalysisService) Get(analysisID string) (*model.AnalysisResult, error) {
	if strings.TrimSpace(analysisID) == "" {
		return nil, ErrInvalidInput
	}
	entry, ok := s.analyses.Get(analysisID)
	if !ok {
		return nil, ErrAnalysisNotFound
	}
	result := entry.Result
	return &result, nil
}

func (s *AnalysisService) List() []model.AnalysisResult {
	return s.analyses.List()
}

// parseStructuredAnalysis rejects anything that does not match the fixed
// schema: exactly the eight known criteria, scores inside [0,10], confidence
// inside [0,1]. Malformed output is a hard failure, never partially kept.
func parseStructuredAnalysis(raw string) (*structuredAnalysis, error) {
	var parsed structuredAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModelResponse, err)
	}

	if len(parsed.CriterionScores) != criterionCount {
		return nil, fmt.Errorf("%w: got %d criterion scores, want %d",
			ErrMalformedModelResponse, len(parsed.CriterionScores), criterionCount)
	}

	byName := make(map[string]model.CriterionScore, len(parsed.CriterionScores))
	for _, cs := range parsed.CriterionScores {
		if cs.Score < 0 || cs.Score > 10 {
			return nil, fmt.Errorf("%w: criterion %q score %v out of range",
				ErrMalformedModelResponse, cs.Name, cs.Score)
		}
		if _, dup := byName[cs.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate criterion %q", ErrMalformedModelResponse, cs.Name)
		}
		byName[cs.Name] = cs
	}

	// Normalize ordering to the canonical criteria order.
	ordered := make([]model.CriterionScore, 0, criterionCount)
	for _, def := range criteriaDefinitions {
		cs, ok := byName[def.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing criterion %q", ErrMalformedModelResponse, def.Name)
		}
		ordered = append(ordered, cs)
	}
	parsed.CriterionScores = ordered

	if parsed.ConfidenceScore < 0 || parsed.ConfidenceScore > 1 {
		return nil, fmt.Errorf("%w: confidence score %v out of range",
			ErrMalformedModelResponse, parsed.ConfidenceScore)
	}
	if parsed.FinancialHighlights == nil {
		parsed.FinancialHighlights = map[string]interface{}{}
	}
	return &parsed, nil
}

func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}
