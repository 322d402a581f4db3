package domain

import "strings"

// Style selects which prefix/suffix tables drive generation.
type Style string

const (
	StyleCool      Style = "cool"
	StyleCute      Style = "cute"
	StyleHacker    Style = "hacker"
	StyleMinimal   Style = "minimal"
	StyleAesthetic Style = "aesthetic"
)

// LengthPref narrows the acceptable candidate length beyond the grammar bounds.
type LengthPref string

const (
	LengthShort  LengthPref = "short"  // len <= 10
	LengthMedium LengthPref = "medium" // 8 <= len <= 16
	LengthLong   LengthPref = "long"   // len >= 12
	LengthAny    LengthPref = "any"
)

// Seed is the user-supplied input a generation run starts from.
// It is treated as immutable once generation begins.
type Seed struct {
	Name       string     // possibly empty
	Interests  []string   // only the first 3 are consumed
	Style      Style      // defaults to cool
	LengthPref LengthPref // defaults to medium
}

// Normalize returns a copy with lowercased/trimmed fields and defaults applied.
// Examples:
//   - {Name: " Alex ", Style: ""} -> {Name: "alex", Style: "cool", LengthPref: "medium"}
//   - unknown styles and prefs fall back to the defaults rather than erroring
func (s Seed) Normalize() Seed {
	out := Seed{
		Name:       strings.ToLower(strings.TrimSpace(s.Name)),
		Style:      s.Style,
		LengthPref: s.LengthPref,
	}

	out.Interests = make([]string, 0, len(s.Interests))
	for _, interest := range s.Interests {
		trimmed := strings.ToLower(strings.TrimSpace(interest))
		if trimmed != "" {
			out.Interests = append(out.Interests, trimmed)
		}
	}

	switch out.Style {
	case StyleCool, StyleCute, StyleHacker, StyleMinimal, StyleAesthetic:
	default:
		out.Style = StyleCool
	}

	switch out.LengthPref {
	case LengthShort, LengthMedium, LengthLong, LengthAny:
	default:
		out.LengthPref = LengthMedium
	}

	return out
}

// AcceptsLength reports whether a cleaned candidate length satisfies the preference.
// The global grammar bounds are checked separately by handle cleaning.
func (p LengthPref) AcceptsLength(n int) bool {
	switch p {
	case LengthShort:
		return n <= 10
	case LengthMedium:
		return n >= 8 && n <= 16
	case LengthLong:
		return n >= 12
	default:
		return true
	}
}
