package analysis

import "fmt"

// InvalidInputError reports a request that cannot be analyzed at all, such as
// an empty resume or job description. It is the only error surfaced to
// callers; everything downstream is absorbed by the tier ladder.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// ProviderUnavailableError records a tier skipped without a call because its
// provider is not configured.
type ProviderUnavailableError struct {
	Provider string
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %s unavailable", e.Provider)
}

// ProviderFailureError records an attempted provider call that failed.
type ProviderFailureError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Provider, e.Message)
}

func (e *ProviderFailureError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError records provider output that could not be decoded
// into an analysis even after repair.
type MalformedResponseError struct {
	Message string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
