package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/extraction"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// maxUploadBytes caps resume uploads at 10 MB.
const maxUploadBytes = 10 << 20

// AnalyzeResponse is the payload returned for a full resume analysis.
type AnalyzeResponse struct {
	Filename      string               `json:"filename"`
	TextLength    int                  `json:"text_length"`
	ExtractedText string               `json:"extracted_text"`
	AIAnalysis    types.AnalysisResult `json:"ai_analysis"`
}

// ExtractResponse is the payload returned when only extraction was requested.
type ExtractResponse struct {
	Filename      string `json:"filename"`
	TextLength    int    `json:"text_length"`
	ExtractedText string `json:"extracted_text"`
}

// TextAnalyzeResponse is the payload returned for a text-only analysis.
type TextAnalyzeResponse struct {
	AIAnalysis types.AnalysisResult `json:"ai_analysis"`
}

// handleHealth reports service status and which AI providers are configured.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"environment": s.cfg.Environment,
		"services": map[string]bool{
			"groq_configured":   s.cfg.GroqConfigured(),
			"gemini_configured": s.cfg.GeminiConfigured(),
		},
	})
}

// handleAnalyzeResume extracts text from an uploaded resume and runs the
// full match analysis against the supplied job description or posting URL.
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readResumeUpload(w, r)
	if !ok {
		return
	}

	jobDescription := strings.TrimSpace(r.FormValue("job_description"))
	jobURL := strings.TrimSpace(r.FormValue("job_url"))
	if jobDescription == "" && jobURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "A job description or job URL is required")
		return
	}

	if jobURL != "" {
		resolved, err := ingestion.JobFromURL(r.Context(), jobURL, &ingestion.Options{Logger: s.requestLogger(r)})
		if err != nil {
			s.requestLogger(r).Warn("job URL ingestion failed",
				zap.String("url", jobURL),
				zap.Error(err),
			)
			s.errorResponse(w, HTTPStatus(err), "Could not load job posting: "+err.Error())
			return
		}
		jobDescription = resolved
	}

	result, err := s.orchestrator.Analyze(r.Context(), types.AnalysisRequest{
		ResumeText:     upload.text,
		JobDescription: jobDescription,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{
		Filename:      upload.filename,
		TextLength:    utf8.RuneCountInString(upload.text),
		ExtractedText: upload.text,
		AIAnalysis:    result,
	})
}

// handleExtractResume extracts resume text without running any analysis.
func (s *Server) handleExtractResume(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readResumeUpload(w, r)
	if !ok {
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		Filename:      upload.filename,
		TextLength:    utf8.RuneCountInString(upload.text),
		ExtractedText: upload.text,
	})
}

// handleAnalyzeText runs the match analysis on pre-extracted resume text.
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resume_text and job_description are required")
		return
	}

	result, err := s.orchestrator.Analyze(r.Context(), types.AnalysisRequest{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, TextAnalyzeResponse{AIAnalysis: result})
}

type resumeUpload struct {
	filename string
	text     string
}

// readResumeUpload parses the multipart form and extracts the resume text.
// On failure it writes the error response itself and returns false.
func (s *Server) readResumeUpload(w http.ResponseWriter, r *http.Request) (resumeUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the 10 MB limit")
			return resumeUpload{}, false
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return resumeUpload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "A resume file is required")
		return resumeUpload{}, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Could not read uploaded file")
		return resumeUpload{}, false
	}
	if len(data) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Uploaded file is empty")
		return resumeUpload{}, false
	}

	text, err := extraction.ResumeText(data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		s.requestLogger(r).Warn("resume extraction failed",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		s.errorResponse(w, uploadStatus(err), err.Error())
		return resumeUpload{}, false
	}

	return resumeUpload{filename: header.Filename, text: text}, true
}
