package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`{"a":1}`))
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object",
			input: `{"ingredients":[],"recipes":[]}`,
			want:  `{"ingredients":[],"recipes":[]}`,
		},
		{
			name:  "fenced",
			input: "```json\n{\"ingredients\":[],\"recipes\":[]}\n```",
			want:  `{"ingredients":[],"recipes":[]}`,
		},
		{
			name:  "leading prose",
			input: `Here you go: {"ingredients":["egg"],"recipes":[{"type":"free","title":"Omelette","description":"x","price":0}]}`,
			want:  `{"ingredients":["egg"],"recipes":[{"type":"free","title":"Omelette","description":"x","price":0}]}`,
		},
		{
			name:  "trailing prose with braces",
			input: `{"a":{"b":{"c":1}}} Hope this helps {really}`,
			want:  `{"a":{"b":{"c":1}}}`,
		},
		{
			name:  "braces inside strings",
			input: `note: {"title":"Curly } pasta {","x":"a \"quoted\" } brace"}`,
			want:  `{"title":"Curly } pasta {","x":"a \"quoted\" } brace"}`,
		},
		{
			name:  "invalid first span is skipped",
			input: `Using {visible ingredients} only: {"ingredients":[],"recipes":[]}`,
			want:  `{"ingredients":[],"recipes":[]}`,
		},
		{
			name:  "invalid outer span yields valid inner object",
			input: `{oops {"ingredients":[],"recipes":[]}}`,
			want:  `{"ingredients":[],"recipes":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExtractJSONObjectFailures(t *testing.T) {
	for _, input := range []string{
		"",
		"I could not see any food in this picture.",
		`{"ingredients": [`,
		`{not json}`,
		`["egg"]`,
	} {
		_, err := ExtractJSONObject(input)
		assert.ErrorIs(t, err, ErrNoJSONObject, "input %q", input)
	}
}
