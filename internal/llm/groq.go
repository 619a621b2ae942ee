package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
)

// groqSystemPrompt pins the assistant role for the primary tier.
const groqSystemPrompt = "You are a helpful recruiter AI that returns only valid JSON responses."

// Sampling settings for the analysis call.
const (
	groqTemperature = 0.7
	groqMaxTokens   = 1000
	groqTopP        = 1.0
)

// GroqClient is the primary provider tier. It calls the Groq
// OpenAI-compatible chat completions endpoint over plain HTTP.
type GroqClient struct {
	cfg    GroqConfig
	client *http.Client
	logger *zap.Logger
}

// NewGroqClient creates a Groq client. An empty APIKey yields a client that
// reports itself unavailable.
func NewGroqClient(cfg GroqConfig, log *zap.Logger) *GroqClient {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &GroqClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}
}

// Name identifies the provider in logs.
func (c *GroqClient) Name() string {
	return "groq"
}

// Available reports whether an API key is configured.
func (c *GroqClient) Available() bool {
	return c.cfg.APIKey != ""
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate runs one chat completion call under the tier's fixed timeout.
func (c *GroqClient) Generate(ctx context.Context, prompt string) Outcome {
	if !c.Available() {
		return failed(FailureAuth, "Groq API key not configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	reqBody := groqRequest{
		Model: c.cfg.Model,
		Messages: []groqMessage{
			{Role: "system", Content: groqSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: groqTemperature,
		MaxTokens:   groqMaxTokens,
		TopP:        groqTopP,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return failed(FailureUnknown, "marshaling request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return failed(FailureUnknown, "creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.logger.Debug("calling groq",
		zap.String("model", c.cfg.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return failed(FailureTimeout, "Groq call timed out", err)
		}
		return failed(FailureUnknown, "Groq HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(FailureUnknown, "reading Groq response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return failed(FailureAuth, fmt.Sprintf("Groq rejected credentials (HTTP %d)", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return failed(FailureRateLimit, "Groq rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		return failed(FailureUnknown, fmt.Sprintf("Groq returned HTTP %d: %s", resp.StatusCode, logger.TruncateForLog(string(body), 200)), nil)
	}

	var parsed groqResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return failed(FailureMalformed, "undecodable Groq response body", err)
	}
	if len(parsed.Choices) == 0 {
		return failed(FailureMalformed, "Groq response contained no choices", nil)
	}

	return succeeded(parsed.Choices[0].Message.Content)
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
