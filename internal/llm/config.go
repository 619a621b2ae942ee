// Package llm provides the AI provider clients driven by the analysis engine.
// Each client wraps exactly one external text-generation service behind the
// Provider interface and reports failures as typed outcomes instead of errors.
package llm

import "time"

// Default model identifiers for the two provider tiers.
const (
	// DefaultGroqModel is the Groq chat model used by the primary tier.
	DefaultGroqModel = "llama-3.3-70b-versatile"
	// DefaultGeminiModel is the Gemini model used by the backup tier.
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Per-tier call timeouts. The primary tier fails fast; the backup tier is
// allowed slightly longer since it is the last AI attempt before the
// deterministic fallback takes over.
const (
	DefaultPrimaryTimeout = 20 * time.Second
	DefaultBackupTimeout  = 30 * time.Second
)

// defaultGroqBaseURL is the Groq OpenAI-compatible API root.
const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqConfig holds the immutable settings for the Groq client. The zero
// value is usable: missing fields are filled with defaults at construction,
// and an empty APIKey marks the provider unavailable rather than broken.
type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DefaultGroqConfig returns the Groq settings used when nothing is overridden.
func DefaultGroqConfig() GroqConfig {
	return GroqConfig{
		Model:   DefaultGroqModel,
		BaseURL: defaultGroqBaseURL,
		Timeout: DefaultPrimaryTimeout,
	}
}

// withDefaults fills unset fields from DefaultGroqConfig.
func (c GroqConfig) withDefaults() GroqConfig {
	if c.Model == "" {
		c.Model = DefaultGroqModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultGroqBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultPrimaryTimeout
	}
	return c
}

// GeminiConfig holds the immutable settings for the Gemini client.
// As with GroqConfig, an empty APIKey marks the provider unavailable.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultGeminiConfig returns the Gemini settings used when nothing is overridden.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Model:   DefaultGeminiModel,
		Timeout: DefaultBackupTimeout,
	}
}

// withDefaults fills unset fields from DefaultGeminiConfig.
func (c GeminiConfig) withDefaults() GeminiConfig {
	if c.Model == "" {
		c.Model = DefaultGeminiModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultBackupTimeout
	}
	return c
}
