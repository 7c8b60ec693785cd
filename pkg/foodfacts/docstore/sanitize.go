package docstore

import (
	"regexp"
	"strings"
)

var invalidKeyChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeKeys recursively rewrites mapping keys so they satisfy the
// destination's key-naming constraints. A value is treated as one of
// mapping, sequence, or scalar; scalars pass through unchanged.
func SanitizeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[sanitizeKey(k)] = SanitizeKeys(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = SanitizeKeys(inner)
		}
		return out
	default:
		return v
	}
}

// sanitizeKey replaces every character outside [A-Za-z0-9_] with an
// underscore. Keys that end up empty or start with the reserved double
// underscore are re-prefixed to stay valid.
func sanitizeKey(k string) string {
	clean := invalidKeyChars.ReplaceAllString(k, "_")
	if clean == "" || strings.HasPrefix(clean, "__") {
		clean = "x_" + clean
	}
	return clean
}
