package worker

import (
	"encoding/json"
	"time"

	"github.com/streadway/amqp"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// publisher sends job status updates and final results.
type publisher interface {
	PublishUpdate(jobID, status, message string) error
	PublishResult(jobID, replyTo string, result types.AnalysisResult) error
}

// amqpPublisher publishes over a shared connection, opening a fresh channel
// per message so workers never share channel state.
type amqpPublisher struct {
	conn     *amqp.Connection
	exchange string
}

func (p *amqpPublisher) publish(routingKey string, payload any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return ch.Publish(
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *amqpPublisher) PublishUpdate(jobID, status, message string) error {
	return p.publish(routingKeyFor(jobID), StatusUpdate{
		JobID:     jobID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (p *amqpPublisher) PublishResult(jobID, replyTo string, result types.AnalysisResult) error {
	key := replyTo
	if key == "" {
		key = routingKeyFor(jobID)
	}
	return p.publish(key, ResultMessage{
		JobID:     jobID,
		Status:    StatusCompleted,
		Analysis:  result,
		Timestamp: time.Now().UTC(),
	})
}

// routingKeyFor lets listeners bind to a single job's updates.
func routingKeyFor(jobID string) string {
	return "analysis." + jobID
}
