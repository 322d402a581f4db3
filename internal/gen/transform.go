package gen

import (
	"strconv"
	"strings"
)

const (
	// MaxLeetCombineBases caps how many known variants receive a combined
	// multi-rule pass.
	MaxLeetCombineBases = 10
	// MaxLeetCombineRules caps how many distinct rules a combined variant applies.
	MaxLeetCombineRules = 3
)

// Separators allowed by the target handle grammar, tried in this order.
var Separators = []string{"", "_"}

// LeetVariants expands a base string into its leet-speak variants using the
// table's substitution rules. Every rule that matches produces one variant
// with all occurrences of that letter replaced; the first MaxLeetCombineBases
// known variants then each get one combined variant applying up to
// MaxLeetCombineRules rules in table order. The result keeps the original
// first, is deduplicated, and its order is deterministic for a fixed table.
func (t *Tables) LeetVariants(base string) []string {
	variants := []string{base}
	seen := map[string]bool{base: true}

	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			variants = append(variants, s)
		}
	}

	for _, rule := range t.LeetRules {
		// Snapshot: variants added by this rule must not feed it again.
		known := variants
		for _, v := range known {
			if strings.Contains(v, rule.From) {
				add(strings.ReplaceAll(v, rule.From, rule.To))
			}
		}
	}

	bases := variants
	if len(bases) > MaxLeetCombineBases {
		bases = bases[:MaxLeetCombineBases]
	}
	for _, v := range bases {
		combined := v
		applied := 0
		for _, rule := range t.LeetRules {
			if applied >= MaxLeetCombineRules {
				break
			}
			if strings.Contains(combined, rule.From) {
				combined = strings.ReplaceAll(combined, rule.From, rule.To)
				applied++
			}
		}
		add(combined)
	}

	return variants
}

// NumericSuffixes appends numeric endings to base in a fixed priority order:
// single digits, multiples of 11, a memorable-number list, then year and
// short-sequence patterns. Consumers that truncate rely on this order.
func NumericSuffixes(base string) []string {
	out := make([]string, 0, 43)

	for i := 0; i < 10; i++ {
		out = append(out, base+strconv.Itoa(i))
	}
	for i := 11; i < 100; i += 11 {
		out = append(out, base+strconv.Itoa(i))
	}
	for _, n := range memorableNumbers {
		out = append(out, base+n)
	}
	for _, y := range yearPatterns {
		out = append(out, base+y)
	}

	return out
}

var memorableNumbers = []string{
	"13", "17", "21", "69", "77", "88", "99",
	"123", "420", "666", "777", "888", "999", "1337",
}

var yearPatterns = []string{
	"2024", "2025", "24", "25", "00", "01", "02", "03", "04", "05",
}

// JoinSeparators joins parts with every allowed separator, no-separator first.
func JoinSeparators(parts []string) []string {
	out := make([]string, 0, len(Separators))
	for _, sep := range Separators {
		out = append(out, strings.Join(parts, sep))
	}
	return out
}
