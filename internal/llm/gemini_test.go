package llm

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestNewGeminiClient_NoKey(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), GeminiConfig{}, nil)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.False(t, client.Available())
	assert.NoError(t, client.Close())
}

func TestGeminiClient_Generate_Unavailable(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), GeminiConfig{}, nil)
	require.NoError(t, err)

	outcome := client.Generate(context.Background(), "prompt")
	require.False(t, outcome.OK())
	assert.Equal(t, FailureAuth, outcome.Failure.Kind)
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"deadline exceeded", context.DeadlineExceeded, FailureTimeout},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), FailureTimeout},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, FailureAuth},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, FailureAuth},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, FailureRateLimit},
		{"server error", &googleapi.Error{Code: http.StatusInternalServerError}, FailureUnknown},
		{"plain error", fmt.Errorf("connection refused"), FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := classifyGeminiError(tt.err)
			require.False(t, outcome.OK())
			assert.Equal(t, tt.want, outcome.Failure.Kind)
		})
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	t.Run("joins text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []genai.Part{genai.Text(`{"match_`), genai.Text(`score": 50}`)},
					},
				},
			},
		}
		text, err := extractTextFromResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, `{"match_score": 50}`, text)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := extractTextFromResponse(&genai.GenerateContentResponse{})
		assert.Error(t, err)
	})

	t.Run("candidate without content", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{}},
		}
		_, err := extractTextFromResponse(resp)
		assert.Error(t, err)
	})

	t.Run("no text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}},
					},
				},
			},
		}
		_, err := extractTextFromResponse(resp)
		assert.Error(t, err)
	})
}
