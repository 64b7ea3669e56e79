package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resume-coach/internal/llm"
)

// AnalysisResult is the model's JSON object, passed through as decoded. It is
// expected to carry "scores", "analysis" and "highlighted_text"; nothing is
// validated beyond being a JSON object.
type AnalysisResult map[string]any

// AnalyzeInput is one analysis request after extraction.
type AnalyzeInput struct {
	Resume         string
	JobRole        string
	JobDescription string
}

// GenerateInput is one rewrite request after extraction.
type GenerateInput struct {
	Resume  string
	JobRole string
}

// Service turns resume text into model calls.
type Service struct {
	LLM llm.Client
}

// NewService constructs a Service.
func NewService(client llm.Client) *Service {
	return &Service{LLM: client}
}

// Analyze scores and annotates a resume for a role.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (AnalysisResult, error) {
	if strings.TrimSpace(in.JobRole) == "" {
		return nil, ErrMissingJobRole
	}

	raw, err := s.LLM.Generate(ctx, llm.Request{
		SystemInstruction: llm.AnalysisInstruction(),
		Prompt:            llm.AnalysisPrompt(in.Resume, in.JobRole, in.JobDescription),
		ExpectJSON:        true,
	})
	if err != nil {
		return nil, err
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseParse, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: response is null", ErrResponseParse)
	}
	return result, nil
}

// Generate rewrites a resume for a role and returns markdown.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (string, error) {
	if strings.TrimSpace(in.JobRole) == "" {
		return "", ErrMissingJobRole
	}

	return s.LLM.Generate(ctx, llm.Request{
		SystemInstruction: llm.GenerationInstruction(),
		Prompt:            llm.GenerationPrompt(in.Resume, in.JobRole),
	})
}
