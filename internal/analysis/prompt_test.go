package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_IncludesBothInputs(t *testing.T) {
	prompt, err := BuildPrompt("Senior Go developer with 8 years experience", "Backend engineer role requiring Go and PostgreSQL")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Senior Go developer")
	assert.Contains(t, prompt, "Backend engineer role")
	assert.Contains(t, prompt, "match_score")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	assert.NotContains(t, prompt, "{{.Resume}}")
	assert.NotContains(t, prompt, "{{.Job}}")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	first, err := BuildPrompt("resume text", "job text")
	require.NoError(t, err)
	second, err := BuildPrompt("resume text", "job text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildPrompt_EmptyResume(t *testing.T) {
	_, err := BuildPrompt("", "a job")
	require.Error(t, err)

	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "resume_text", invalid.Field)
}

func TestBuildPrompt_WhitespaceResume(t *testing.T) {
	_, err := BuildPrompt("   \n\t  ", "a job")

	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "resume_text", invalid.Field)
}

func TestBuildPrompt_EmptyJobDescription(t *testing.T) {
	_, err := BuildPrompt("a resume", "  ")

	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "job_description", invalid.Field)
}

func TestBuildPrompt_ClipsLongResume(t *testing.T) {
	longResume := strings.Repeat("x", maxResumeChars+500)

	prompt, err := BuildPrompt(longResume, "a job")
	require.NoError(t, err)

	assert.Contains(t, prompt, strings.Repeat("x", maxResumeChars))
	assert.NotContains(t, prompt, strings.Repeat("x", maxResumeChars+1))
}

func TestClipRunes_MultibyteSafe(t *testing.T) {
	clipped := clipRunes("résumé", 4)
	assert.Equal(t, "résu", clipped)

	assert.Equal(t, "short", clipRunes("short", 100))
}
