package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/extraction"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one resume or a directory of resumes against a job",
	Long: `Scores resume files against a job description and prints the match analysis.

The job may be supplied as literal text, a path to a text file, or a posting
URL. When no AI provider is configured the deterministic keyword analyzer
serves the result, so the command always completes.`,
	RunE: runAnalyze,
}

var (
	analyzeResume      string
	analyzeResumeDir   string
	analyzeJob         string
	analyzeJobURL      string
	analyzeJSON        bool
	analyzeVerbose     bool
	analyzeUseBrowser  bool
	analyzeConcurrency int
)

func init() {
	analyzeCommand.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to a resume file (.pdf, .docx or .txt)")
	analyzeCommand.Flags().StringVar(&analyzeResumeDir, "resume-dir", "", "Directory of resumes to analyze as a batch (mutually exclusive with --resume)")
	analyzeCommand.Flags().StringVarP(&analyzeJob, "job", "j", "", "Job description text, or a path to a text file containing it")
	analyzeCommand.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	analyzeCommand.Flags().BoolVar(&analyzeJSON, "json", false, "Print results as JSON")
	analyzeCommand.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print extracted text and debug logs")
	analyzeCommand.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use a headless browser for JavaScript-heavy job postings (requires Chrome)")
	analyzeCommand.Flags().IntVar(&analyzeConcurrency, "concurrency", 4, "Number of resumes analyzed in parallel in batch mode")
	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if analyzeResume == "" && analyzeResumeDir == "" {
		return fmt.Errorf("either --resume or --resume-dir must be provided")
	}
	if analyzeResume != "" && analyzeResumeDir != "" {
		return fmt.Errorf("--resume and --resume-dir are mutually exclusive")
	}
	if analyzeConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	log := zap.NewNop()
	if analyzeVerbose {
		var err error
		log, err = logger.New(false, true)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}

	cfg := config.Load()
	orch, err := buildOrchestrator(ctx, cfg, log)
	if err != nil {
		return err
	}

	job, err := ingestion.ResolveJob(ctx, analyzeJob, analyzeJobURL, &ingestion.Options{
		UseBrowser: analyzeUseBrowser,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve job description: %w", err)
	}

	paths := []string{analyzeResume}
	if analyzeResumeDir != "" {
		paths, err = listResumeFiles(analyzeResumeDir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no resume files found in %s", analyzeResumeDir)
		}
	}

	outputs := analyzeAll(ctx, orch, paths, job, analyzeConcurrency)
	return printResults(os.Stdout, outputs, analyzeJSON, analyzeVerbose)
}

// analyzeOutput is one resume's result in a batch. Either Analysis or Error
// is set.
type analyzeOutput struct {
	Filename      string                `json:"filename"`
	Source        types.SourceTier      `json:"source,omitempty"`
	Analysis      *types.AnalysisResult `json:"analysis,omitempty"`
	ExtractedText string                `json:"-"`
	Error         string                `json:"error,omitempty"`
}

// analyzeAll runs every resume through the orchestrator, concurrency files
// at a time. Per-file failures land in the output rather than aborting the
// batch.
func analyzeAll(ctx context.Context, orch *analysis.Orchestrator, paths []string, job string, concurrency int) []analyzeOutput {
	outputs := make([]analyzeOutput, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			outputs[i] = analyzeFile(ctx, orch, path, job)
			return nil
		})
	}
	_ = g.Wait()

	return outputs
}

// analyzeFile extracts one resume file and scores it against the job.
func analyzeFile(ctx context.Context, orch *analysis.Orchestrator, path, job string) analyzeOutput {
	out := analyzeOutput{Filename: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		out.Error = fmt.Sprintf("reading resume: %v", err)
		return out
	}

	text, err := extraction.ResumeText(data, filepath.Base(path), "")
	if err != nil {
		out.Error = fmt.Sprintf("extracting resume text: %v", err)
		return out
	}
	out.ExtractedText = text

	result, err := orch.Analyze(ctx, types.AnalysisRequest{ResumeText: text, JobDescription: job})
	if err != nil {
		out.Error = err.Error()
		return out
	}

	out.Source = result.SourceTier
	out.Analysis = &result
	return out
}

// listResumeFiles returns the supported resume files in dir.
func listResumeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resume directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".docx", ".txt":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// printResults writes the batch outcome as JSON or formatted boxes. It
// returns an error when any resume failed, so the exit code reflects the
// batch.
func printResults(w io.Writer, outputs []analyzeOutput, asJSON, verbose bool) error {
	failures := 0
	for _, out := range outputs {
		if out.Error != "" {
			failures++
		}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		var err error
		if len(outputs) == 1 {
			err = enc.Encode(outputs[0])
		} else {
			err = enc.Encode(outputs)
		}
		if err != nil {
			return err
		}
	} else {
		printer := observability.NewPrinter(w)
		for _, out := range outputs {
			fmt.Fprintf(w, "\n%s\n", out.Filename)
			if out.Error != "" {
				fmt.Fprintf(w, "  error: %s\n", out.Error)
				continue
			}
			if verbose {
				printer.PrintExtraction(out.Filename, out.ExtractedText)
			}
			printer.PrintAnalysis(out.Analysis)
			printer.PrintEmailDraft(out.Analysis)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d resumes failed", failures, len(outputs))
	}
	return nil
}
