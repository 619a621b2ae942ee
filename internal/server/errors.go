package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/extraction"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Provider and tier failures never reach this mapping; the orchestrator
// absorbs them and serves the keyword analysis instead.
func HTTPStatus(err error) int {
	var invalidInput *analysis.InvalidInputError
	var unsupported *extraction.UnsupportedFormatError
	var emptyDoc *extraction.EmptyDocumentError

	switch {
	case errors.As(err, &invalidInput), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &emptyDoc):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrNoJobSource):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrJobContentEmpty), errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// uploadStatus maps resume extraction failures onto client-facing codes.
// A file the parser cannot read is the upload's fault, never a 500.
func uploadStatus(err error) int {
	if status := HTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusUnprocessableEntity
}
