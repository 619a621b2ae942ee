package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// geminiTemperature matches the primary tier's sampling so the two AI tiers
// produce comparable output.
const geminiTemperature = 0.7

// GeminiClient is the backup provider tier, wrapping the Google Gemini SDK.
type GeminiClient struct {
	cfg    GeminiConfig
	client *genai.Client
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini client. With no API key configured the
// returned client reports itself unavailable and never dials out; a non-nil
// error means a key was present but the SDK client could not be built.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log *zap.Logger) (*GeminiClient, error) {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	gc := &GeminiClient{cfg: cfg, logger: log}
	if cfg.APIKey == "" {
		return gc, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	gc.client = client

	return gc, nil
}

// Name identifies the provider in logs.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Available reports whether an API key was configured at construction.
func (c *GeminiClient) Available() bool {
	return c.client != nil
}

// Generate runs one completion call under the tier's fixed timeout.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) Outcome {
	if c.client == nil {
		return failed(FailureAuth, "Gemini API key not configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.cfg.Model)
	model.SetTemperature(geminiTemperature)
	model.ResponseMIMEType = "application/json"

	c.logger.Debug("calling gemini",
		zap.String("model", c.cfg.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return classifyGeminiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return failed(FailureMalformed, "Gemini response contained no text", err)
	}

	return succeeded(CleanJSONBlock(text))
}

// Close releases resources held by the underlying SDK client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// classifyGeminiError maps SDK errors onto failure kinds.
func classifyGeminiError(err error) Outcome {
	if isTimeout(err) {
		return failed(FailureTimeout, "Gemini call timed out", err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return failed(FailureAuth, fmt.Sprintf("Gemini rejected credentials (HTTP %d)", gerr.Code), err)
		case http.StatusTooManyRequests:
			return failed(FailureRateLimit, "Gemini rate limit exceeded", err)
		}
	}

	return failed(FailureUnknown, "Gemini call failed", err)
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
