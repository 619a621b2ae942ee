package llm

import "strings"

// CleanJSONBlock strips a surrounding markdown code fence from text.
// Providers habitually wrap JSON replies in ```json fences even when the
// prompt forbids it.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	body = strings.TrimPrefix(body, fenceTag(body))
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// fenceTag returns the language tag opening a fence, e.g. "json" in
// "```json". Tags are alphanumeric, so a fence opening straight into the
// JSON object itself is left intact.
func fenceTag(body string) string {
	for i := 0; i < len(body); i++ {
		c := body[i]
		isTag := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !isTag {
			return body[:i]
		}
	}
	return body
}

// ExtractJSONObject returns the first balanced {...} block in text, or the
// empty string when none exists. Providers sometimes surround the JSON
// payload with prose even when instructed not to. Braces inside JSON string
// values are ignored.
func ExtractJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}
