package domain

import "strings"

const (
	// MinHandleLen and MaxHandleLen are the authority's hard length bounds.
	MinHandleLen = 5
	MaxHandleLen = 32
)

// CleanHandle lowercases a raw candidate and strips every character outside
// [a-z0-9_]. It returns "" when nothing usable remains or when the result
// would not start with a letter (the authority forbids that).
func CleanHandle(raw string) string {
	raw = strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return ""
	}
	if cleaned[0] < 'a' || cleaned[0] > 'z' {
		return ""
	}
	return cleaned
}

// ValidHandle reports whether s matches the target grammar
// ^[a-z][a-z0-9_]{4,31}$ exactly.
func ValidHandle(s string) bool {
	if len(s) < MinHandleLen || len(s) > MaxHandleLen {
		return false
	}
	if s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}
