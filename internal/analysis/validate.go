package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Repair bounds. A score below strengthsFloorScore is lifted to it whenever
// the model also identified concrete strengths, so harsh numeric scoring
// cannot contradict the rest of the assessment.
const (
	maxListItems        = 10
	maxSummaryChars     = 1000
	strengthsFloorScore = 35
)

// defaultSummary substitutes for a blank or missing summary field.
const defaultSummary = "Automated review completed; a detailed summary is not available for this analysis."

// analysisSchema describes the response shape the AI tiers are asked for.
// Violations are logged, never fatal: every field defect is repaired below.
const analysisSchema = `{
  "type": "object",
  "required": ["match_score", "key_strengths", "missing_skills", "summary", "email_draft"],
  "properties": {
    "match_score": {"type": "number", "minimum": 0, "maximum": 100},
    "key_strengths": {"type": "array", "items": {"type": "string"}},
    "missing_skills": {"type": "array", "items": {"type": "string"}},
    "summary": {"type": "string", "minLength": 1},
    "email_draft": {"type": "string", "minLength": 1}
  }
}`

// Validator turns raw provider output into a canonical result. Individual
// field defects are repaired in place; only a payload with no decodable JSON
// object at all is rejected.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a validator. A nil logger disables repair logging.
func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{logger: log}
}

// Normalize parses rawText into an AnalysisResult, repairing partial defects.
// It returns a MalformedResponseError only when no JSON object can be
// decoded from the payload.
func (v *Validator) Normalize(rawText string) (types.AnalysisResult, error) {
	payload, doc, err := decodePayload(rawText)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	v.logSchemaDefects(doc)

	score, suspect := coerceScore(payload["match_score"])
	if suspect {
		v.logger.Warn("match_score missing or unreadable, defaulting to 0")
	}
	score = clampScore(score)

	strengths := coerceStringList(payload["key_strengths"], maxListItems)
	missing := coerceStringList(payload["missing_skills"], maxListItems)

	if score < strengthsFloorScore && len(strengths) > 0 {
		v.logger.Debug("lifting score to strengths floor",
			zap.Int("match_score", score),
			zap.Int("floor", strengthsFloorScore),
		)
		score = strengthsFloorScore
	}

	summary := strings.TrimSpace(coerceString(payload["summary"]))
	if summary == "" {
		v.logger.Debug("substituting placeholder summary")
		summary = defaultSummary
	}
	summary = clipRunes(summary, maxSummaryChars)

	email := strings.TrimSpace(coerceString(payload["email_draft"]))
	if email == "" {
		v.logger.Debug("substituting templated email draft", zap.Int("match_score", score))
		email = draftEmailForScore(score)
	}

	return types.AnalysisResult{
		MatchScore:    score,
		KeyStrengths:  strengths,
		MissingSkills: missing,
		Summary:       summary,
		EmailDraft:    email,
	}, nil
}

// decodePayload extracts a JSON object from rawText, tolerating markdown
// fences and conversational text around the object. It returns both the
// decoded map and the JSON document that produced it.
func decodePayload(rawText string) (map[string]any, string, error) {
	cleaned := llm.CleanJSONBlock(rawText)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil && payload != nil {
		return payload, cleaned, nil
	}

	extracted := llm.ExtractJSONObject(cleaned)
	if extracted == "" {
		return nil, "", &MalformedResponseError{Message: "no JSON object in payload"}
	}
	if err := json.Unmarshal([]byte(extracted), &payload); err != nil {
		return nil, "", &MalformedResponseError{Message: "undecodable JSON object", Cause: err}
	}
	return payload, extracted, nil
}

// logSchemaDefects records which fields deviate from the requested response
// shape before repair.
func (v *Validator) logSchemaDefects(doc string) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(analysisSchema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil || result.Valid() {
		return
	}

	defects := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		defects = append(defects, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	v.logger.Debug("response deviates from requested shape, repairing",
		zap.Strings("defects", defects),
	)
}

// coerceScore reads a score of any JSON type. The second return is true when
// the value was absent or unreadable and 0 was substituted.
func coerceScore(value any) (int, bool) {
	switch n := value.(type) {
	case float64:
		return int(math.Round(n)), false
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(math.Round(f)), false
		}
		return 0, true
	default:
		return 0, true
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// coerceStringList reads a list field, dropping blank entries and bounding
// length. A bare string is treated as a single-entry list.
func coerceStringList(value any, limit int) []string {
	var items []string
	switch list := value.(type) {
	case []any:
		for _, entry := range list {
			if s := strings.TrimSpace(coerceString(entry)); s != "" {
				items = append(items, s)
			}
		}
	case string:
		if s := strings.TrimSpace(list); s != "" {
			items = append(items, s)
		}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// coerceString renders scalar JSON values as text; objects and arrays
// yield "".
func coerceString(value any) string {
	switch s := value.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
