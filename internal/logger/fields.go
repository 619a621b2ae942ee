package logger

import (
	"go.uber.org/zap"
)

const (
	// FieldTier is the structured log field key for the analysis tier.
	FieldTier = "tier"
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "provider"
	// FieldFailure is the structured log field key for the provider failure kind.
	FieldFailure = "failure_kind"
	// FieldRequestID is the structured log field key for the per-request correlation ID.
	FieldRequestID = "request_id"
	// FieldJobID is the structured log field key for queue job IDs.
	FieldJobID = "job_id"
)

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}
