// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxPreviewLines is the number of extracted-text lines shown in verbose mode
	maxPreviewLines = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of one match analysis.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Match Score:  %d / 100\n", result.MatchScore))
	sb.WriteString(fmt.Sprintf("Source:       %s\n", tierLabel(result.SourceTier)))
	sb.WriteString("\n")

	writeTermList(&sb, "Key Strengths:", result.KeyStrengths)
	writeTermList(&sb, "Missing Skills:", result.MissingSkills)

	if result.Summary != "" {
		sb.WriteString("Summary:\n")
		for _, line := range wrapText(result.Summary, boxWidth-8) {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	p.printBox("MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEmailDraft outputs the suggested recruiter email.
func (p *Printer) PrintEmailDraft(result *types.AnalysisResult) {
	if result == nil || result.EmailDraft == "" {
		return
	}

	lines := wrapText(result.EmailDraft, boxWidth-6)
	p.printBox("SUGGESTED EMAIL", strings.Join(lines, "\n"))
}

// PrintExtraction outputs a preview of the text pulled from a resume file.
func (p *Printer) PrintExtraction(filename, text string) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("File:        %s\n", filename))
	sb.WriteString(fmt.Sprintf("Characters:  %d\n", utf8.RuneCountInString(text)))
	sb.WriteString("\n")

	lines := strings.Split(text, "\n")
	count := min(len(lines), maxPreviewLines)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i])
		sb.WriteString("\n")
	}
	if len(lines) > maxPreviewLines {
		sb.WriteString(fmt.Sprintf("... and %d more lines", len(lines)-maxPreviewLines))
	}

	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// writeTermList appends a capped bullet list under a heading.
func writeTermList(sb *strings.Builder, heading string, terms []string) {
	if len(terms) == 0 {
		return
	}

	sb.WriteString(heading)
	sb.WriteString("\n")

	count := min(len(terms), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", terms[i]))
	}
	if len(terms) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(terms)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// wrapText breaks prose into lines no wider than width runes, keeping
// existing line breaks.
func wrapText(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := words[0]
		for _, word := range words[1:] {
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}

func tierLabel(tier types.SourceTier) string {
	switch tier {
	case types.TierPrimary:
		return "primary AI"
	case types.TierBackup:
		return "backup AI"
	case types.TierFallback:
		return "keyword match"
	default:
		return "unknown"
	}
}
