package llm

import "errors"

// ErrNoJSONFound is returned when a completion contains no balanced {...} span.
var ErrNoJSONFound = errors.New("no JSON object found in response")

// ExtractJSONObject returns the first balanced JSON object in text.
// Braces inside string literals are ignored, so prose or markdown fences
// around the object do not matter.
func ExtractJSONObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if start < 0 {
			if ch == '{' {
				start = i
				depth = 1
			}
			continue
		}

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
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrNoJSONFound
}
