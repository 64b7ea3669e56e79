package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-coach/internal/llm"
	"resume-coach/internal/shared/metrics"
	"resume-coach/internal/shared/telemetry"
)

const jsonMIMEType = "application/json"

// generator is the subset of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on the Gemini API.
type Client struct {
	models  generator
	model   string
	timeout time.Duration
}

// NewClient constructs a Gemini client. A zero timeout leaves the call bounded
// only by ctx.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("GEMINI_MODEL is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{models: client.Models, model: model, timeout: timeout}, nil
}

// Generate runs one model call. With ExpectJSON the reply must decode as JSON.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
	}
	if req.ExpectJSON {
		cfg.ResponseMIMEType = jsonMIMEType
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	elapsed := time.Since(start)
	metrics.ObserveGatewayDuration(elapsed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", llm.ErrGateway, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: no response", llm.ErrGateway)
	}
	logUsage(c.model, req.ExpectJSON, elapsed, resp)

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response%s", llm.ErrGateway, finishDetail(resp))
	}
	if !req.ExpectJSON {
		return text, nil
	}

	text = llm.StripCodeFence(text)
	var probe any
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return "", fmt.Errorf("%w: %w", llm.ErrInvalidJSON, err)
	}
	return text, nil
}

func finishDetail(resp *genai.GenerateContentResponse) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Sprintf(" (prompt blocked: %s)", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		return fmt.Sprintf(" (finish reason: %s)", resp.Candidates[0].FinishReason)
	}
	return ""
}

func logUsage(model string, expectJSON bool, elapsed time.Duration, resp *genai.GenerateContentResponse) {
	fields := map[string]any{
		"model":       model,
		"json":        expectJSON,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
