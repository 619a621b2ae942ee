package analysis

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Scoring bounds for the keyword tier. Keyword overlap alone never justifies
// an absolute 0 or 100, and a candidate matching at least half the job
// vocabulary is floored at 60.
const (
	fallbackFloorRatio = 0.5
	fallbackFloorScore = 60
	minFallbackScore   = 10
	maxFallbackScore   = 95
	maxFallbackTerms   = 8
)

// stopWords holds common English words and job-posting boilerplate excluded
// from the skill vocabulary.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"nor": true, "so": true, "yet": true, "to": true, "of": true, "in": true,
	"on": true, "at": true, "by": true, "for": true, "with": true, "from": true,
	"as": true, "is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "am": true, "do": true, "does": true,
	"did": true, "done": true, "will": true, "would": true, "can": true,
	"could": true, "should": true, "shall": true, "may": true, "might": true,
	"must": true, "have": true, "has": true, "had": true, "having": true,
	"this": true, "that": true, "these": true, "those": true, "it": true,
	"its": true, "we": true, "you": true, "your": true, "yours": true,
	"our": true, "ours": true, "their": true, "theirs": true, "they": true,
	"them": true, "he": true, "she": true, "his": true, "her": true,
	"hers": true, "us": true, "me": true, "my": true, "mine": true,
	"who": true, "whom": true, "whose": true, "which": true, "what": true,
	"when": true, "where": true, "why": true, "how": true, "not": true,
	"no": true, "if": true, "then": true, "than": true, "too": true,
	"very": true, "just": true, "also": true, "more": true, "most": true,
	"other": true, "others": true, "some": true, "such": true, "only": true,
	"own": true, "same": true, "each": true, "all": true, "any": true,
	"both": true, "few": true, "about": true, "above": true, "after": true,
	"again": true, "against": true, "below": true, "between": true,
	"during": true, "into": true, "over": true, "under": true, "until": true,
	"up": true, "down": true, "out": true, "off": true, "once": true,
	"here": true, "there": true, "further": true, "while": true,
	"because": true, "through": true, "before": true, "per": true,
	"via": true, "etc": true, "eg": true, "ie": true,
	// Job-posting boilerplate that carries no skill signal.
	"require": true, "requires": true, "required": true, "requirement": true,
	"requirements": true, "prefer": true, "preferred": true, "plus": true,
	"bonus": true, "ability": true, "able": true, "strong": true,
	"experience": true, "experienced": true, "years": true, "year": true,
	"work": true, "working": true, "works": true, "knowledge": true,
	"skill": true, "skills": true, "skilled": true, "familiarity": true,
	"familiar": true, "proficiency": true, "proficient": true,
	"understanding": true, "understand": true, "excellent": true,
	"good": true, "great": true, "solid": true, "role": true,
	"roles": true, "position": true, "positions": true, "job": true,
	"candidate": true, "candidates": true, "team": true, "teams": true,
	"company": true, "responsibilities": true, "responsibility": true,
	"including": true, "include": true, "includes": true, "included": true,
	"using": true, "use": true, "used": true, "uses": true, "well": true,
	"new": true, "looking": true, "seeking": true, "ideal": true,
	"related": true, "relevant": true, "similar": true, "minimum": true,
	"least": true, "degree": true, "field": true, "equivalent": true,
}

// KeywordAnalyzer is the final tier. It scores a resume against a job
// description by vocabulary overlap, with no network dependency and no
// error path.
type KeywordAnalyzer struct{}

// NewKeywordAnalyzer creates the deterministic keyword tier.
func NewKeywordAnalyzer() *KeywordAnalyzer {
	return &KeywordAnalyzer{}
}

// Analyze produces a complete match result from keyword overlap alone. It is
// a pure function of its inputs: the same pair always yields the same result.
func (a *KeywordAnalyzer) Analyze(resumeText, jobDescription string) types.AnalysisResult {
	jobTerms := vocabulary(jobDescription)
	resumeSet := termSet(vocabulary(resumeText))

	var matched, absent []string
	for _, term := range jobTerms {
		if resumeSet[term] {
			matched = append(matched, term)
		} else {
			absent = append(absent, term)
		}
	}

	score := minFallbackScore
	if len(jobTerms) > 0 {
		ratio := float64(len(matched)) / float64(len(jobTerms))
		score = int(math.Round(ratio * 100))
		if ratio >= fallbackFloorRatio && score < fallbackFloorScore {
			score = fallbackFloorScore
		}
	}
	if score < minFallbackScore {
		score = minFallbackScore
	}
	if score > maxFallbackScore {
		score = maxFallbackScore
	}

	return types.AnalysisResult{
		MatchScore:    score,
		KeyStrengths:  capTerms(matched, maxFallbackTerms),
		MissingSkills: capTerms(absent, maxFallbackTerms),
		Summary:       fallbackSummary(score, absent),
		EmailDraft:    draftEmailForScore(score),
		SourceTier:    types.TierFallback,
	}
}

// vocabulary extracts the skill vocabulary of text: lowercased unigrams plus
// adjacent two-word phrases, stop words removed, deduplicated, in order of
// first appearance.
func vocabulary(text string) []string {
	tokens := tokenize(text)

	var terms []string
	seen := make(map[string]bool)
	add := func(term string) {
		if !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}

	for i, token := range tokens {
		valid := validTerm(token)
		if valid {
			add(token)
		}
		if i > 0 && valid && validTerm(tokens[i-1]) {
			add(tokens[i-1] + " " + token)
		}
	}
	return terms
}

// tokenize lowercases text and splits it into candidate tokens, keeping
// characters that appear inside technology names ("c++", "ci/cd", "node.js").
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			r != '+' && r != '#' && r != '.' && r != '-' && r != '/'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "./-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// validTerm reports whether a token belongs in the skill vocabulary.
func validTerm(token string) bool {
	if len(token) < 2 || stopWords[token] {
		return false
	}
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func termSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, term := range terms {
		set[term] = true
	}
	return set
}

func capTerms(terms []string, limit int) []string {
	if len(terms) > limit {
		return terms[:limit]
	}
	return terms
}

// fallbackSummary renders the tone-tier summary sentence plus the top skill
// gaps.
func fallbackSummary(score int, missing []string) string {
	summary := fmt.Sprintf("Candidate shows %s with the role requirements (%d%% keyword match).",
		alignmentForScore(score), score)

	if len(missing) > 0 {
		top := missing
		if len(top) > 2 {
			top = top[:2]
		}
		return summary + fmt.Sprintf(" Development opportunities exist in %s.", strings.Join(top, ", "))
	}
	return summary + " No significant skill gaps were identified."
}

// alignmentForScore maps a score onto the three assessment tiers.
func alignmentForScore(score int) string {
	switch {
	case score >= 75:
		return "strong alignment"
	case score >= 50:
		return "moderate alignment"
	default:
		return "limited alignment"
	}
}

// draftEmailForScore produces a candidate-agnostic email whose tone follows
// the assessment tier: interview invitation, conditional interest, or a
// polite pass.
func draftEmailForScore(score int) string {
	switch {
	case score >= 75:
		return `Dear Candidate,

Thank you for your application. Our initial review found a strong match between your background and the role requirements.

We would like to invite you to the next stage of our hiring process. Please let us know your availability for a conversation in the coming week.

Best regards,
Hiring Team`
	case score >= 50:
		return `Dear Candidate,

Thank you for your application. Our initial review found meaningful overlap between your background and the role requirements, along with some areas we would like to explore further.

We may reach out to schedule a conversation about your experience in more detail.

Best regards,
Hiring Team`
	default:
		return `Dear Candidate,

Thank you for taking the time to apply for this position. After an initial review, we have decided to move forward with applicants whose experience more closely aligns with the current requirements.

We will keep your resume on file and encourage you to apply for future openings that better match your background.

Best regards,
Hiring Team`
	}
}
