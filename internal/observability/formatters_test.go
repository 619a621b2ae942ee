package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.AnalysisResult{
		MatchScore:    72,
		KeyStrengths:  []string{"python", "docker"},
		MissingSkills: []string{"kubernetes"},
		Summary:       "Candidate shows moderate alignment with the role requirements.",
		SourceTier:    types.TierPrimary,
	}

	p.PrintAnalysis(result)
	output := buf.String()

	assert.Contains(t, output, "MATCH ANALYSIS")
	assert.Contains(t, output, "72 / 100")
	assert.Contains(t, output, "primary AI")
	assert.Contains(t, output, "python")
	assert.Contains(t, output, "kubernetes")
	assert.Contains(t, output, "moderate alignment")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAnalysis_CapsLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.AnalysisResult{
		MatchScore:   40,
		KeyStrengths: []string{"go", "python", "sql", "docker", "kafka", "redis", "grpc", "terraform"},
		SourceTier:   types.TierFallback,
	}

	p.PrintAnalysis(result)
	output := buf.String()

	assert.Contains(t, output, "... and 3 more")
	assert.Contains(t, output, "keyword match")
	assert.NotContains(t, output, "terraform")
}

func TestPrintEmailDraft(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.AnalysisResult{
		EmailDraft: "Dear Candidate,\n\nThank you for your application. We would like to invite you to the next stage.\n\nBest regards,\nHiring Team",
	}

	p.PrintEmailDraft(result)
	output := buf.String()

	assert.Contains(t, output, "SUGGESTED EMAIL")
	assert.Contains(t, output, "Dear Candidate,")
	assert.Contains(t, output, "Hiring Team")
}

func TestPrintEmailDraft_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEmailDraft(&types.AnalysisResult{})

	assert.Empty(t, buf.String())
}

func TestPrintExtraction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtraction("resume.pdf", "Jane Doe\nBackend Engineer\nPython, Go, SQL")
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED TEXT")
	assert.Contains(t, output, "resume.pdf")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Characters:  41")
}

func TestPrintExtraction_TruncatesLongDocuments(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	text := strings.Repeat("line\n", 20)
	p.PrintExtraction("resume.txt", strings.TrimSuffix(text, "\n"))

	assert.Contains(t, buf.String(), "... and 12 more lines")
}

func TestWrapText(t *testing.T) {
	lines := wrapText("a short line", 40)
	assert.Equal(t, []string{"a short line"}, lines)

	lines = wrapText("one two three four five six seven eight nine ten", 20)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Equal(t, "one two three four", lines[0])

	lines = wrapText("first paragraph\n\nsecond paragraph", 40)
	assert.Equal(t, []string{"first paragraph", "", "second paragraph"}, lines)
}
