package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_AnalyzeFit(t *testing.T) {
	prompt, err := Get("analysis.json", "analyze-fit")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Technical Recruiter")
	assert.Contains(t, prompt, "{{.Job}}")
	assert.Contains(t, prompt, "{{.Resume}}")
	assert.Contains(t, prompt, "match_score")
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("analysis.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet("analysis.json", "analyze-fit"))
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "substitutes every placeholder",
			template: "Hello {{.Name}}, welcome to {{.Company}}!",
			data:     map[string]string{"Name": "Alice", "Company": "Acme Corp"},
			want:     "Hello Alice, welcome to Acme Corp!",
		},
		{
			name:     "repeated placeholder",
			template: "{{.Word}} and {{.Word}} again",
			data:     map[string]string{"Word": "here"},
			want:     "here and here again",
		},
		{
			name:     "no placeholders",
			template: "No placeholders here",
			data:     map[string]string{"Key": "Value"},
			want:     "No placeholders here",
		},
		{
			name:     "empty data leaves placeholders in place",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			want:     "Hello {{.Name}}",
		},
		{
			name:     "unmatched placeholder left in place",
			template: "{{.Known}} and {{.Unknown}}",
			data:     map[string]string{"Known": "value"},
			want:     "value and {{.Unknown}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}
