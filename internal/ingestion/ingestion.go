// Package ingestion resolves job description inputs into analysis-ready
// text. A job may arrive as literal text, a local file, or a posting URL;
// every path yields cleaned plain text or an error.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/extraction"
	"github.com/jonathan/resume-analyzer/internal/fetch"
)

var (
	// ErrNoJobSource is returned when neither job text nor a job URL was given.
	ErrNoJobSource = fmt.Errorf("no job description provided")
	// ErrHTTPRequestFailed is returned when the posting could not be fetched.
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text could be extracted.
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
	// ErrJobContentEmpty is returned when the resolved job text is blank.
	ErrJobContentEmpty = fmt.Errorf("job description is empty")
)

// Options configures job ingestion.
type Options struct {
	FetchTimeout   time.Duration
	BrowserTimeout time.Duration
	UseBrowser     bool
	Logger         *zap.Logger
}

func (o *Options) withDefaults() *Options {
	opts := Options{}
	if o != nil {
		opts = *o
	}
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = fetch.DefaultTimeout
	}
	if opts.BrowserTimeout == 0 {
		opts.BrowserTimeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &opts
}

// ResolveJob turns CLI-style job input into analysis-ready text. A non-empty
// jobURL wins; otherwise jobArg is read as a file when one exists at that
// path, and treated as literal text when not.
func ResolveJob(ctx context.Context, jobArg, jobURL string, opts *Options) (string, error) {
	if jobURL != "" {
		return JobFromURL(ctx, jobURL, opts)
	}
	if jobArg == "" {
		return "", ErrNoJobSource
	}

	if info, err := os.Stat(jobArg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(jobArg)
		if err != nil {
			return "", fmt.Errorf("reading job file: %w", err)
		}
		return jobText(string(data))
	}

	return jobText(jobArg)
}

// JobFromURL fetches a job posting page and reduces it to text. Pages that
// come back nearly empty over plain HTTP are retried in a headless browser
// when that is enabled.
func JobFromURL(ctx context.Context, urlStr string, opts *Options) (string, error) {
	o := opts.withDefaults()
	log := o.Logger

	platform := fetch.DetectPlatform(urlStr)

	result, err := fetch.URL(ctx, urlStr, &fetch.Options{
		Timeout:   o.FetchTimeout,
		UserAgent: fetch.DefaultUserAgent,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	log.Debug("fetched job posting",
		zap.String("url", urlStr),
		zap.String("platform", string(platform)),
		zap.Int("html_bytes", len(result.HTML)),
	)

	text, err := fetch.ExtractJobText(result.HTML, platform)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	if o.UseBrowser && fetch.ShouldUseBrowser(text) {
		log.Debug("content too short, rendering in browser",
			zap.String("url", urlStr),
			zap.Int("text_chars", len(text)),
		)

		browserHTML, browserErr := fetch.WithBrowser(ctx, urlStr, o.BrowserTimeout, log)
		if browserErr != nil {
			// Keep the HTTP content when rendering fails.
			log.Warn("browser rendering failed, using HTTP content", zap.Error(browserErr))
		} else if rendered, extractErr := fetch.ExtractJobText(browserHTML, platform); extractErr == nil {
			text = rendered
		}
	}

	return jobText(text)
}

// jobText cleans resolved text and rejects blank results.
func jobText(raw string) (string, error) {
	cleaned := extraction.CleanText(raw)
	if strings.TrimSpace(cleaned) == "" {
		return "", ErrJobContentEmpty
	}
	return cleaned, nil
}
