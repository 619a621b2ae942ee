// Package types provides type definitions for structured data used throughout the resume-analyzer system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// SourceTier identifies which tier of the analysis pipeline produced a result.
type SourceTier string

const (
	// TierPrimary is the first AI provider tier.
	TierPrimary SourceTier = "primary"
	// TierBackup is the second AI provider tier.
	TierBackup SourceTier = "backup"
	// TierFallback is the deterministic keyword tier that cannot fail.
	TierFallback SourceTier = "fallback"
)

// AnalysisRequest carries the inputs for a single match analysis.
// Both fields must be non-empty UTF-8 text; the orchestrator rejects
// anything else before contacting a provider.
type AnalysisRequest struct {
	ResumeText     string
	JobDescription string
}

// AnalysisResult is the canonical output of an analysis. Every tier,
// AI-backed or not, produces this exact shape. SourceTier records which
// tier served the result; it is logged but never serialized to clients.
type AnalysisResult struct {
	MatchScore    int        `json:"match_score"`
	KeyStrengths  []string   `json:"key_strengths"`
	MissingSkills []string   `json:"missing_skills"`
	Summary       string     `json:"summary"`
	EmailDraft    string     `json:"email_draft"`
	SourceTier    SourceTier `json:"-"`
}

// AnalyzeTextRequest represents a direct analysis request with pre-extracted
// resume text (no file upload).
type AnalyzeTextRequest struct {
	ResumeText     string `json:"resume_text" validate:"required,min=1"`
	JobDescription string `json:"job_description" validate:"required,min=1"`
}

// Validate validates the AnalyzeTextRequest using the validator.
func (r *AnalyzeTextRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
