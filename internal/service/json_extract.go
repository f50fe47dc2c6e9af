package service

import (
	"encoding/json"
	"strings"
)

var fenceReplacer = strings.NewReplacer("```json", "", "```JSON", "", "```", "")

// StripCodeFences removes markdown code fence markers the model sometimes
// wraps its answer in.
func StripCodeFences(text string) string {
	return strings.TrimSpace(fenceReplacer.Replace(text))
}

// ExtractJSONObject returns the first balanced, valid JSON object embedded in
// text. Leading and trailing prose is ignored. Braces inside JSON strings do
// not count towards nesting. A balanced span that fails to parse is skipped
// and the scan resumes at the next '{'.
func ExtractJSONObject(text string) (json.RawMessage, error) {
	text = StripCodeFences(text)

	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end, ok := matchBrace(text, start); ok {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate), nil
			}
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	return nil, ErrNoJSONObject
}

// matchBrace returns the index of the '}' closing the object opened at start.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
