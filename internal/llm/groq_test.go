package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroqTestClient(t *testing.T, handler http.HandlerFunc) (*GroqClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewGroqClient(GroqConfig{
		APIKey:  "gsk-test",
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	}, nil)
	return client, server
}

func groqCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestGroqClient_Generate_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq groqRequest

	client, _ := newGroqTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		groqCompletion(t, w, `{"match_score": 82}`)
	})

	outcome := client.Generate(context.Background(), "analyze this")
	require.True(t, outcome.OK(), "outcome: %+v", outcome.Failure)
	assert.Equal(t, `{"match_score": 82}`, outcome.Text)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer gsk-test", gotAuth)
	assert.Equal(t, DefaultGroqModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "analyze this", gotReq.Messages[1].Content)
	assert.Equal(t, groqTemperature, gotReq.Temperature)
	assert.Equal(t, groqMaxTokens, gotReq.MaxTokens)
}

func TestGroqClient_Generate_Unavailable(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewGroqClient(GroqConfig{BaseURL: server.URL}, nil)
	assert.False(t, client.Available())

	outcome := client.Generate(context.Background(), "prompt")
	require.False(t, outcome.OK())
	assert.Equal(t, FailureAuth, outcome.Failure.Kind)
	assert.False(t, called, "no request should be sent without an API key")
}

func TestGroqClient_Generate_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   FailureKind
	}{
		{"unauthorized", http.StatusUnauthorized, FailureAuth},
		{"forbidden", http.StatusForbidden, FailureAuth},
		{"rate limited", http.StatusTooManyRequests, FailureRateLimit},
		{"server error", http.StatusInternalServerError, FailureUnknown},
		{"bad gateway", http.StatusBadGateway, FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newGroqTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			outcome := client.Generate(context.Background(), "prompt")
			require.False(t, outcome.OK())
			assert.Equal(t, tt.want, outcome.Failure.Kind)
		})
	}
}

func TestGroqClient_Generate_UndecodableBody(t *testing.T) {
	client, _ := newGroqTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	})

	outcome := client.Generate(context.Background(), "prompt")
	require.False(t, outcome.OK())
	assert.Equal(t, FailureMalformed, outcome.Failure.Kind)
}

func TestGroqClient_Generate_EmptyChoices(t *testing.T) {
	client, _ := newGroqTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	outcome := client.Generate(context.Background(), "prompt")
	require.False(t, outcome.OK())
	assert.Equal(t, FailureMalformed, outcome.Failure.Kind)
	assert.Contains(t, outcome.Failure.Message, "no choices")
}

func TestGroqClient_Generate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewGroqClient(GroqConfig{
		APIKey:  "gsk-test",
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	}, nil)

	start := time.Now()
	outcome := client.Generate(context.Background(), "prompt")
	require.False(t, outcome.OK())
	assert.Equal(t, FailureTimeout, outcome.Failure.Kind)
	assert.Less(t, time.Since(start), time.Second, "should give up at the configured timeout")
}

func TestFailure_Error(t *testing.T) {
	f := &Failure{Kind: FailureRateLimit, Message: "slow down"}
	assert.Equal(t, "provider failure (rate_limit): slow down", f.Error())

	wrapped := &Failure{Kind: FailureUnknown, Message: "boom", Cause: context.DeadlineExceeded}
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
	assert.Contains(t, wrapped.Error(), "boom")
	assert.Contains(t, wrapped.Error(), "deadline")
}
