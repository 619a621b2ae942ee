package worker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Job lifecycle statuses published to the result exchange.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// AnalysisJob is the queue message requesting one match analysis. The
// resume arrives either inline as extracted text or as an object key
// pointing into the resume bucket. ReplyTo overrides the routing key the
// final result is published under.
type AnalysisJob struct {
	JobID          string `json:"job_id"`
	JobDescription string `json:"job_description"`
	ResumeText     string `json:"resume_text,omitempty"`
	ObjectKey      string `json:"object_key,omitempty"`
	Mime           string `json:"mime,omitempty"`
	Filename       string `json:"filename,omitempty"`
	ReplyTo        string `json:"reply_to,omitempty"`
}

// StatusUpdate reports job progress to listeners on the result exchange.
type StatusUpdate struct {
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ResultMessage carries the finished analysis for a job.
type ResultMessage struct {
	JobID     string               `json:"job_id"`
	Status    string               `json:"status"`
	Analysis  types.AnalysisResult `json:"analysis"`
	Timestamp time.Time            `json:"timestamp"`
}

// decodeJob parses and validates a queue message. The returned job carries
// whatever fields did parse, so a caller can still report failure by ID.
func decodeJob(body []byte) (AnalysisJob, error) {
	var job AnalysisJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("error unmarshalling message body: %w", err)
	}

	switch {
	case strings.TrimSpace(job.JobID) == "":
		return job, fmt.Errorf("message is missing job_id")
	case strings.TrimSpace(job.JobDescription) == "":
		return job, fmt.Errorf("message is missing job_description")
	case job.ResumeText == "" && job.ObjectKey == "":
		return job, fmt.Errorf("message carries neither resume_text nor object_key")
	}

	return job, nil
}
