// Package sanitize escapes HTML significant characters in user supplied
// values before they are stored or rendered into responses.
package sanitize

import (
	"html"
)

// String escapes `<`, `>`, `&`, `"` and `'` to their entity equivalents.
// Escaping is not idempotent: already escaped input gets escaped again.
func String(s string) string {
	return html.EscapeString(s)
}

// Value sanitizes the JSON value shapes recursively: strings are escaped,
// mapping values and sequence elements are sanitized in place of their
// originals (keys and order preserved), any other value is returned unchanged.
func Value(v any) any {
	switch v := v.(type) {
	case string:
		return String(v)
	case map[string]any:
		m := make(map[string]any, len(v))
		for key, value := range v {
			m[key] = Value(value)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, item := range v {
			s[i] = Value(item)
		}
		return s
	default:
		return v
	}
}
