package textutil

import (
	"strings"
	"unicode"
)

// unknownToken stands in for names that sanitize to nothing.
const unknownToken = "unknown"

// SanitizeToken reduces a provider name to a single lowercase path segment.
// Letters and digits survive, '-' and '_' are kept, and every other rune
// (path separators and dots included) becomes '_'. Leading and trailing
// separators are trimmed so "../evil" cannot climb out of its directory.
func SanitizeToken(value string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return unicode.ToLower(r)
		default:
			return '_'
		}
	}, strings.TrimSpace(value))
	mapped = strings.Trim(mapped, "_-")
	if mapped == "" {
		return unknownToken
	}
	return mapped
}
