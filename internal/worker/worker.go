// Package worker consumes queued analysis jobs from RabbitMQ, runs them
// through the analysis tiers, and publishes progress and results.
package worker

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/extraction"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var retryBaseDelay = 500 * time.Millisecond

// retry retries a function up to attempts times with growing backoff.
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		time.Sleep(time.Duration(i+1) * retryBaseDelay)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// Worker pulls analysis jobs off the queue and serves them. The store may
// be nil when no object storage is configured; jobs that reference an
// object key then fail with a published error instead of crashing.
type Worker struct {
	cfg          *config.Config
	orchestrator *analysis.Orchestrator
	store        ResumeStore
	logger       *zap.Logger
}

// New creates a worker bound to the given orchestrator and resume store.
func New(cfg *config.Config, orchestrator *analysis.Orchestrator, store ResumeStore, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		cfg:          cfg,
		orchestrator: orchestrator,
		store:        store,
		logger:       log,
	}
}

// Run connects to the broker and consumes jobs until ctx is cancelled or
// the broker closes the delivery stream. Each worker goroutine consumes on
// its own channel.
func (w *Worker) Run(ctx context.Context) error {
	conn, err := amqp.Dial(w.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	setup, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	if err := w.declareTopology(setup); err != nil {
		setup.Close()
		return err
	}
	setup.Close()

	pub := &amqpPublisher{conn: conn, exchange: w.cfg.ResultExchange}

	w.logger.Info("consuming analysis jobs",
		zap.String("queue", w.cfg.AnalysisQueue),
		zap.Int("workers", w.cfg.WorkerCount),
	)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.cfg.WorkerCount; i++ {
		id := i + 1
		g.Go(func() error {
			return w.consume(ctx, conn, pub, id)
		})
	}
	return g.Wait()
}

// declareTopology declares the job queue and result exchange.
func (w *Worker) declareTopology(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(
		w.cfg.AnalysisQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.ExchangeDeclare(
		w.cfg.ResultExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}

// consume runs one worker loop on a dedicated channel.
func (w *Worker) consume(ctx context.Context, conn *amqp.Connection, pub publisher, id int) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	msgs, err := ch.Consume(
		w.cfg.AnalysisQueue,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq messages: %w", err)
	}

	log := logger.WithFields(w.logger, zap.Int("worker", id))
	log.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handleDelivery(ctx, msg, pub, log)
		}
	}
}

// handleDelivery processes one queue message end to end. Undecodable
// messages are reported where possible and dropped.
func (w *Worker) handleDelivery(ctx context.Context, msg amqp.Delivery, pub publisher, log *zap.Logger) {
	job, err := decodeJob(msg.Body)
	if err != nil {
		log.Warn("discarding bad job message", zap.Error(err))
		if job.JobID != "" {
			w.publishFailed(pub, job.JobID, "invalid job message", log)
		}
		return
	}

	log = logger.WithFields(log, zap.String(logger.FieldJobID, job.JobID))
	log.Info("job received")

	if err := pub.PublishUpdate(job.JobID, StatusProcessing, "analysis started"); err != nil {
		log.Warn("failed to publish update", zap.Error(err))
	}

	result, err := w.runJob(ctx, job)
	if err != nil {
		log.Warn("job failed", zap.Error(err))
		w.publishFailed(pub, job.JobID, err.Error(), log)
		return
	}

	if err := pub.PublishResult(job.JobID, job.ReplyTo, result); err != nil {
		log.Warn("failed to publish result", zap.Error(err))
		return
	}
	if err := pub.PublishUpdate(job.JobID, StatusCompleted, "analysis completed"); err != nil {
		log.Warn("failed to publish update", zap.Error(err))
	}

	log.Info("job completed",
		zap.Int("match_score", result.MatchScore),
		zap.String(logger.FieldTier, string(result.SourceTier)),
	)
}

// runJob resolves the resume text, inline or from object storage, and runs
// the analysis.
func (w *Worker) runJob(ctx context.Context, job AnalysisJob) (types.AnalysisResult, error) {
	resumeText := strings.TrimSpace(job.ResumeText)

	if resumeText == "" && job.ObjectKey != "" {
		if w.store == nil {
			return types.AnalysisResult{}, fmt.Errorf("job references object storage but none is configured")
		}

		data, err := retry(3, func() ([]byte, error) {
			return w.store.Download(ctx, job.ObjectKey)
		})
		if err != nil {
			return types.AnalysisResult{}, fmt.Errorf("file download error: %w", err)
		}

		filename := job.Filename
		if filename == "" {
			filename = path.Base(job.ObjectKey)
		}
		resumeText, err = extraction.ResumeText(data, filename, job.Mime)
		if err != nil {
			return types.AnalysisResult{}, fmt.Errorf("text extraction error: %w", err)
		}
	}

	return w.orchestrator.Analyze(ctx, types.AnalysisRequest{
		ResumeText:     resumeText,
		JobDescription: job.JobDescription,
	})
}

func (w *Worker) publishFailed(pub publisher, jobID, message string, log *zap.Logger) {
	if err := pub.PublishUpdate(jobID, StatusFailed, message); err != nil {
		log.Warn("failed to publish update", zap.Error(err))
	}
}
