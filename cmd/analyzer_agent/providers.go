package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/llm"
)

// buildOrchestrator wires the provider tiers from the service configuration.
// Providers without credentials are still constructed; the orchestrator
// skips them at request time.
func buildOrchestrator(ctx context.Context, cfg *config.Config, log *zap.Logger) (*analysis.Orchestrator, error) {
	groq := llm.NewGroqClient(llm.GroqConfig{
		APIKey: cfg.GroqAPIKey,
		Model:  cfg.GroqModel,
	}, log)

	gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return analysis.NewOrchestrator(groq, gemini, log), nil
}
