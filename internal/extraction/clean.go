package extraction

import (
	"regexp"
	"strings"
)

var (
	xmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
	spaceRunPattern    = regexp.MustCompile(`[ \t]+`)
	hyphenBreakPattern = regexp.MustCompile(`(\w)-\s*\n\s*(\w)`)
	bulletPattern      = regexp.MustCompile(`[•●○■□▪▫]`)
	starBulletPattern  = regexp.MustCompile(`\*\s+`)
	dotRunPattern      = regexp.MustCompile(`\.{2,}`)
	dashRunPattern     = regexp.MustCompile(`-{2,}`)
	pageNumberPattern  = regexp.MustCompile(`\n\s*\d+\s*\n`)
	pageLabelPattern   = regexp.MustCompile(`(?i)\n\s*Page\s+\d+\s*\n`)
	pageParenPattern   = regexp.MustCompile(`(?i)\n\s*\(Page\s+\d+\)\s*\n`)
	wrappedLinePattern = regexp.MustCompile(`([a-z])\n([a-z])`)
)

// CleanText normalizes text extracted from a document: collapses whitespace,
// repairs words hyphenated across line breaks, standardizes bullets, and
// strips page-number artifacts left behind by PDF extraction.
func CleanText(text string) string {
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = hyphenBreakPattern.ReplaceAllString(text, "${1}${2}")

	text = bulletPattern.ReplaceAllString(text, "-")
	text = starBulletPattern.ReplaceAllString(text, "- ")

	text = dotRunPattern.ReplaceAllString(text, ".")
	text = dashRunPattern.ReplaceAllString(text, "-")

	text = pageNumberPattern.ReplaceAllString(text, "\n")
	text = pageLabelPattern.ReplaceAllString(text, "\n")
	text = pageParenPattern.ReplaceAllString(text, "\n")

	text = wrappedLinePattern.ReplaceAllString(text, "${1} ${2}")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
