package worker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/types"
)

func TestDecodeJob_InlineResume(t *testing.T) {
	body := []byte(`{"job_id": "job-1", "job_description": "Requires Go", "resume_text": "Go engineer"}`)

	job, err := decodeJob(body)

	require.NoError(t, err)
	assert.Equal(t, "job-1", job.JobID)
	assert.Equal(t, "Requires Go", job.JobDescription)
	assert.Equal(t, "Go engineer", job.ResumeText)
}

func TestDecodeJob_ObjectKey(t *testing.T) {
	body := []byte(`{"job_id": "job-2", "job_description": "Requires Go", "object_key": "resumes/abc.pdf", "mime": "application/pdf"}`)

	job, err := decodeJob(body)

	require.NoError(t, err)
	assert.Equal(t, "resumes/abc.pdf", job.ObjectKey)
	assert.Equal(t, "application/pdf", job.Mime)
}

func TestDecodeJob_ReplyTo(t *testing.T) {
	body := []byte(`{"job_id": "job-7", "job_description": "Requires Go", "resume_text": "Go engineer", "reply_to": "portal.session.7"}`)

	job, err := decodeJob(body)

	require.NoError(t, err)
	assert.Equal(t, "portal.session.7", job.ReplyTo)
}

func TestRoutingKeyFor(t *testing.T) {
	assert.Equal(t, "analysis.job-8", routingKeyFor("job-8"))
}

func TestDecodeJob_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `queue noise`},
		{"missing job id", `{"job_description": "Requires Go", "resume_text": "Go engineer"}`},
		{"missing job description", `{"job_id": "job-3", "resume_text": "Go engineer"}`},
		{"no resume source", `{"job_id": "job-4", "job_description": "Requires Go"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeJob([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDecodeJob_KeepsParsedFieldsOnValidationFailure(t *testing.T) {
	job, err := decodeJob([]byte(`{"job_id": "job-5"}`))

	require.Error(t, err)
	assert.Equal(t, "job-5", job.JobID)
}

func TestResultMessage_CarriesAnalysisFields(t *testing.T) {
	msg := ResultMessage{
		JobID:  "job-6",
		Status: StatusCompleted,
		Analysis: types.AnalysisResult{
			MatchScore:   72,
			KeyStrengths: []string{"go"},
			Summary:      "Decent fit.",
		},
	}

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	analysis, ok := decoded["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(72), analysis["match_score"])
	assert.NotContains(t, analysis, "SourceTier")
}
