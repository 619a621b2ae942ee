package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const aiPayload = `{"match_score": 82, "key_strengths": ["python"], "missing_skills": ["sql"], "summary": "Solid candidate.", "email_draft": "Dear Candidate, let us talk."}`

type stubProvider struct {
	name      string
	available bool
	outcome   llm.Outcome
}

func (p *stubProvider) Name() string    { return p.name }
func (p *stubProvider) Available() bool { return p.available }

func (p *stubProvider) Generate(context.Context, string) llm.Outcome {
	return p.outcome
}

type fakePublisher struct {
	updates  []StatusUpdate
	results  []ResultMessage
	replyTos []string
}

func (p *fakePublisher) PublishUpdate(jobID, status, message string) error {
	p.updates = append(p.updates, StatusUpdate{JobID: jobID, Status: status, Message: message})
	return nil
}

func (p *fakePublisher) PublishResult(jobID, replyTo string, result types.AnalysisResult) error {
	p.results = append(p.results, ResultMessage{JobID: jobID, Status: StatusCompleted, Analysis: result})
	p.replyTos = append(p.replyTos, replyTo)
	return nil
}

type fakeStore struct {
	data  []byte
	err   error
	calls int
}

func (s *fakeStore) Download(context.Context, string) ([]byte, error) {
	s.calls++
	return s.data, s.err
}

// newTestWorker builds a worker whose providers are down, so every valid
// job lands on the keyword tier.
func newTestWorker(primary llm.Provider, store ResumeStore) *Worker {
	if primary == nil {
		primary = &stubProvider{name: "groq"}
	}
	cfg := &config.Config{
		AnalysisQueue:  "analyses",
		ResultExchange: "analysis_results",
		WorkerCount:    1,
	}
	orch := analysis.NewOrchestrator(primary, nil, zap.NewNop())
	return New(cfg, orch, store, zap.NewNop())
}

func shortRetries(t *testing.T) {
	t.Helper()
	old := retryBaseDelay
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = old })
}

func deliveryFor(t *testing.T, job AnalysisJob) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return amqp.Delivery{Body: body}
}

func TestHandleDelivery_InlineResume(t *testing.T) {
	w := newTestWorker(nil, nil)
	pub := &fakePublisher{}

	msg := deliveryFor(t, AnalysisJob{
		JobID:          "job-1",
		JobDescription: "Requires Python and SQL",
		ResumeText:     "Experienced backend engineer skilled in Python and Docker.",
	})
	w.handleDelivery(context.Background(), msg, pub, zap.NewNop())

	require.Len(t, pub.results, 1)
	assert.Equal(t, "job-1", pub.results[0].JobID)
	assert.Equal(t, 60, pub.results[0].Analysis.MatchScore)
	assert.Equal(t, types.TierFallback, pub.results[0].Analysis.SourceTier)

	require.Len(t, pub.updates, 2)
	assert.Equal(t, StatusProcessing, pub.updates[0].Status)
	assert.Equal(t, StatusCompleted, pub.updates[1].Status)
}

func TestHandleDelivery_ServesPrimaryWhenAvailable(t *testing.T) {
	primary := &stubProvider{name: "groq", available: true, outcome: llm.Outcome{Text: aiPayload}}
	w := newTestWorker(primary, nil)
	pub := &fakePublisher{}

	msg := deliveryFor(t, AnalysisJob{
		JobID:          "job-2",
		JobDescription: "Requires Python and SQL",
		ResumeText:     "Python developer",
	})
	w.handleDelivery(context.Background(), msg, pub, zap.NewNop())

	require.Len(t, pub.results, 1)
	assert.Equal(t, 82, pub.results[0].Analysis.MatchScore)
	assert.Equal(t, types.TierPrimary, pub.results[0].Analysis.SourceTier)
}

func TestHandleDelivery_ReplyToReachesPublisher(t *testing.T) {
	w := newTestWorker(nil, nil)
	pub := &fakePublisher{}

	msg := deliveryFor(t, AnalysisJob{
		JobID:          "job-6",
		JobDescription: "Requires Python",
		ResumeText:     "Python developer",
		ReplyTo:        "portal.session.42",
	})
	w.handleDelivery(context.Background(), msg, pub, zap.NewNop())

	require.Len(t, pub.replyTos, 1)
	assert.Equal(t, "portal.session.42", pub.replyTos[0])
}

func TestHandleDelivery_ObjectKey(t *testing.T) {
	store := &fakeStore{data: []byte("Skilled in Python and SQL development")}
	w := newTestWorker(nil, store)
	pub := &fakePublisher{}

	msg := deliveryFor(t, AnalysisJob{
		JobID:          "job-3",
		JobDescription: "Requires Python and SQL",
		ObjectKey:      "resumes/abc.txt",
		Mime:           "text/plain",
	})
	w.handleDelivery(context.Background(), msg, pub, zap.NewNop())

	assert.Equal(t, 1, store.calls)
	require.Len(t, pub.results, 1)
	assert.NotZero(t, pub.results[0].Analysis.MatchScore)
}

func TestHandleDelivery_DownloadFailure(t *testing.T) {
	shortRetries(t)
	store := &fakeStore{err: fmt.Errorf("no such key")}
	w := newTestWorker(nil, store)
	pub := &fakePublisher{}

	msg := deliveryFor(t, AnalysisJob{
		JobID:          "job-4",
		JobDescription: "Requires Python",
		ObjectKey:      "resumes/missing.txt",
	})
	w.handleDelivery(context.Background(), msg, pub, zap.NewNop())

	assert.Equal(t, 3, store.calls)
	assert.Empty(t, pub.results)

	require.Len(t, pub.updates, 2)
	assert.Equal(t, StatusFailed, pub.updates[1].Status)
	assert.Contains(t, pub.updates[1].Message, "file download error")
}

func TestHandleDelivery_ExtractionFailure(t *testing.T) {
	store := &fakeStore{data: []byte("%PDF-not really")}
	w := newTestWorker(nil, store)
	pub := &fakePublisher{}

	msg := deliveryFor(t, AnalysisJob{
		JobID:          "job-5",
		JobDescription: "Requires Python",
		ObjectKey:      "resumes/broken.pdf",
		Mime:           "application/pdf",
	})
	w.handleDelivery(context.Background(), msg, pub, zap.NewNop())

	assert.Empty(t, pub.results)
	require.Len(t, pub.updates, 2)
	assert.Equal(t, StatusFailed, pub.updates[1].Status)
	assert.Contains(t, pub.updates[1].Message, "text extraction error")
}

func TestHandleDelivery_GarbageBody(t *testing.T) {
	w := newTestWorker(nil, nil)
	pub := &fakePublisher{}

	w.handleDelivery(context.Background(), amqp.Delivery{Body: []byte("queue noise")}, pub, zap.NewNop())

	assert.Empty(t, pub.updates)
	assert.Empty(t, pub.results)
}

func TestHandleDelivery_InvalidMessageReportsByID(t *testing.T) {
	w := newTestWorker(nil, nil)
	pub := &fakePublisher{}

	w.handleDelivery(context.Background(), amqp.Delivery{Body: []byte(`{"job_id": "job-9"}`)}, pub, zap.NewNop())

	assert.Empty(t, pub.results)
	require.Len(t, pub.updates, 1)
	assert.Equal(t, "job-9", pub.updates[0].JobID)
	assert.Equal(t, StatusFailed, pub.updates[0].Status)
}

func TestHandleDelivery_BlankResumeFailsBeforeProviders(t *testing.T) {
	w := newTestWorker(nil, nil)
	pub := &fakePublisher{}

	msg := deliveryFor(t, AnalysisJob{
		JobID:          "job-10",
		JobDescription: "Requires Python",
		ResumeText:     "   ",
	})
	w.handleDelivery(context.Background(), msg, pub, zap.NewNop())

	assert.Empty(t, pub.results)
	require.Len(t, pub.updates, 2)
	assert.Equal(t, StatusFailed, pub.updates[1].Status)
}

func TestRunJob_PrefersInlineText(t *testing.T) {
	store := &fakeStore{data: []byte("should not be read")}
	w := newTestWorker(nil, store)

	result, err := w.runJob(context.Background(), AnalysisJob{
		JobID:          "job-11",
		JobDescription: "Requires Python and SQL",
		ResumeText:     "Python developer",
		ObjectKey:      "resumes/ignored.txt",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, store.calls)
	assert.NotZero(t, result.MatchScore)
}

func TestRunJob_ObjectKeyWithoutStore(t *testing.T) {
	w := newTestWorker(nil, nil)

	_, err := w.runJob(context.Background(), AnalysisJob{
		JobID:          "job-12",
		JobDescription: "Requires Python",
		ObjectKey:      "resumes/abc.txt",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "object storage")
}
