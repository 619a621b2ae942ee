// Package prompts embeds the LLM prompt catalog. Each JSON file maps prompt
// keys to template text, and the whole catalog is parsed once on first use.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFS embed.FS

// catalog parses every embedded prompt file on first access. A defect in an
// embedded file surfaces on the first Get rather than at import time.
var catalog = sync.OnceValues(func() (map[string]map[string]string, error) {
	files := make(map[string]map[string]string)

	entries, err := promptFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt directory: %w", err)
	}
	for _, entry := range entries {
		data, err := promptFS.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", entry.Name(), err)
		}
		keyed := make(map[string]string)
		if err := json.Unmarshal(data, &keyed); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", entry.Name(), err)
		}
		files[entry.Name()] = keyed
	}
	return files, nil
})

// Get returns the template stored under key in the named file, e.g.
// Get("analysis.json", "analyze-fit").
func Get(filename, key string) (string, error) {
	files, err := catalog()
	if err != nil {
		return "", err
	}
	keyed, ok := files[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	template, ok := keyed[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for prompts the program cannot run without.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(err)
	}
	return template
}

// Format substitutes {{.Key}} placeholders with values from data.
// Placeholders without a matching entry are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
