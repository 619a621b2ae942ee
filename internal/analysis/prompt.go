// Package analysis implements the tiered resume-to-job match engine. A
// request is served by the first tier that produces a usable result: the
// primary AI provider, then the backup AI provider, then a deterministic
// keyword analyzer that cannot fail.
package analysis

import (
	"strings"

	"github.com/jonathan/resume-analyzer/internal/prompts"
)

// maxResumeChars bounds the resume text sent to AI providers to keep token
// usage predictable.
const maxResumeChars = 6000

// BuildPrompt constructs the shared evaluation prompt for the AI tiers.
// It rejects blank inputs so no provider is ever called for an
// unanalyzable request.
func BuildPrompt(resumeText, jobDescription string) (string, error) {
	if strings.TrimSpace(resumeText) == "" {
		return "", &InvalidInputError{Field: "resume_text", Message: "resume text is empty"}
	}
	if strings.TrimSpace(jobDescription) == "" {
		return "", &InvalidInputError{Field: "job_description", Message: "job description is empty"}
	}

	template := prompts.MustGet("analysis.json", "analyze-fit")
	return prompts.Format(template, map[string]string{
		"Job":    jobDescription,
		"Resume": clipRunes(resumeText, maxResumeChars),
	}), nil
}

// clipRunes truncates s to at most limit runes.
func clipRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
