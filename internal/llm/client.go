package llm

import (
	"context"
	"fmt"
)

// FailureKind classifies why a provider call produced no usable payload.
// The orchestrator treats every kind the same way (advance to the next
// tier); the kind exists for logging and tests.
type FailureKind string

const (
	// FailureTimeout marks a call that exceeded the tier's fixed timeout.
	FailureTimeout FailureKind = "timeout"
	// FailureAuth marks a rejected or missing credential.
	FailureAuth FailureKind = "auth"
	// FailureRateLimit marks a provider-side throttling rejection.
	FailureRateLimit FailureKind = "rate_limit"
	// FailureMalformed marks a response with no extractable text payload.
	FailureMalformed FailureKind = "malformed_response"
	// FailureUnknown marks transport errors and unclassified provider errors.
	FailureUnknown FailureKind = "unknown"
)

// Failure describes one failed provider call.
type Failure struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("provider failure (%s): %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("provider failure (%s): %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Outcome is the transient result of a single provider call: either a raw
// text payload claimed to contain a structured answer, or a typed failure.
// Exactly one of the two is set. Outcomes are consumed immediately by the
// orchestrator and never persisted.
type Outcome struct {
	Text    string
	Failure *Failure
}

// OK reports whether the call produced a payload.
func (o Outcome) OK() bool {
	return o.Failure == nil
}

// Provider wraps a single external text-generation service. Implementations
// hold only immutable configuration, so one instance may serve concurrent
// analyses without coordination.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Available reports whether a credential is configured. Callers check
	// this before Generate; an unavailable provider is skipped, not called.
	Available() bool
	// Generate runs one completion call under the provider's fixed timeout.
	// All failures are reported through the outcome; Generate never panics
	// and performs no retries.
	Generate(ctx context.Context, prompt string) Outcome
}

// succeeded builds a payload outcome.
func succeeded(text string) Outcome {
	return Outcome{Text: text}
}

// failed builds a failure outcome.
func failed(kind FailureKind, message string, cause error) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Message: message, Cause: cause}}
}
