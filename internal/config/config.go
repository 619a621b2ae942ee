// Package config loads runtime configuration from the environment.
// AI provider credentials are optional: a missing key disables that tier
// without ever failing a request.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime settings for the server, worker and CLI.
type Config struct {
	Environment string
	Port        int
	LogJSON     bool
	LogDebug    bool

	// RateLimitPerMinute caps requests per client IP. Zero disables the
	// limiter.
	RateLimitPerMinute int

	GroqAPIKey   string
	GroqModel    string
	GeminiAPIKey string
	GeminiModel  string

	RabbitURL      string
	AnalysisQueue  string
	ResultExchange string
	WorkerCount    int

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// Load reads configuration from the environment, applying defaults for
// everything that is not security-sensitive.
func Load() *Config {
	environment := getEnv("ENVIRONMENT", "development")

	return &Config{
		Environment: environment,
		Port:        getEnvInt("PORT", 8000),
		LogJSON:     getEnvBool("LOG_JSON", environment == "production"),
		LogDebug:    getEnvBool("LOG_DEBUG", false),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 0),

		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GroqModel:    os.Getenv("GROQ_MODEL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),

		RabbitURL:      os.Getenv("RABBITMQ_URL"),
		AnalysisQueue:  getEnv("ANALYSIS_QUEUE", "analyses"),
		ResultExchange: getEnv("RESULT_EXCHANGE", "analysis_results"),
		WorkerCount:    getEnvInt("WORKER_COUNT", 3),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    getEnv("S3_REGION", "auto"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
}

// GroqConfigured reports whether the primary AI tier has a credential.
func (c *Config) GroqConfigured() bool {
	return c.GroqAPIKey != ""
}

// GeminiConfigured reports whether the backup AI tier has a credential.
func (c *Config) GeminiConfigured() bool {
	return c.GeminiAPIKey != ""
}

// S3Configured reports whether resume downloads from object storage are
// possible.
func (c *Config) S3Configured() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// ValidateWorker checks the settings the queue worker cannot run without.
func (c *Config) ValidateWorker() error {
	if c.RabbitURL == "" {
		return fmt.Errorf("RABBITMQ_URL must be set to run the worker")
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
