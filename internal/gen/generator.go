package gen

import (
	"strings"

	"github.com/ndelvaux/handleforge/internal/domain"
)

const (
	// MaxStyleAffixes caps how many prefixes/suffixes of the active style are
	// combined with the name.
	MaxStyleAffixes = 30
	// MaxInterests caps how many interest tags are consumed from the seed.
	MaxInterests = 3
	// MaxKeywordsPerInterest caps keywords drawn from one interest table.
	MaxKeywordsPerInterest = 30
	// MaxKeywordAffixes caps style prefixes/suffixes applied to a bare keyword.
	MaxKeywordAffixes = 15
	// MaxLeetBases caps how many simple-tier candidates get leet variants.
	MaxLeetBases = 200
	// MaxNumericBases caps how many candidates get numeric suffixes.
	MaxNumericBases = 150
)

// nameTemplates are the fixed name-only forms emitted first, before any
// style or interest combination.
var nameTemplates = []string{
	"%s", "%s_official", "%s_real", "%s_main", "the%s", "%sx", "%sxx",
}

// creativeTemplates are the fixed closing patterns of the simple tier.
var creativeTemplates = []string{
	"the%s", "%sofficial", "%sreal", "%smain", "%spro",
	"%sking", "%squeen", "%sboss", "%smaster", "%slord",
	"mr%s", "ms%s", "%sx", "%sxx", "%sxo",
	"%sz", "%szz", "i%s", "im%s", "its%s",
	"just%s", "only%s", "pure%s", "real%s", "true%s",
	"new%s", "old%s", "young%s", "little%s", "big%s", "super%s",
}

// Generator expands a seed into an ordered, deduplicated candidate list.
// Generation is pure and deterministic for a fixed table set.
type Generator struct {
	tables *Tables
}

func NewGenerator(tables *Tables) *Generator {
	return &Generator{tables: tables}
}

// Generate produces candidates in strict tier order: simple forms first,
// then leet-speak variants, then numeric-suffix forms (numbers are the least
// memorable, so they come last). The result is cleaned to the handle grammar,
// filtered by the seed's length preference and deduplicated keeping the
// first occurrence. An empty name with no matched interests yields an empty
// slice; callers must treat that as a normal outcome.
func (g *Generator) Generate(seed domain.Seed) []string {
	seed = seed.Normalize()

	simple := g.simpleTier(seed)

	leetBases := simple
	if len(leetBases) > MaxLeetBases {
		leetBases = leetBases[:MaxLeetBases]
	}
	leet := make([]string, 0, len(leetBases)*4)
	for _, base := range leetBases {
		leet = append(leet, g.tables.LeetVariants(base)...)
	}

	numericBases := make([]string, 0, MaxNumericBases)
	numericBases = append(numericBases, simple...)
	numericBases = append(numericBases, leet...)
	if len(numericBases) > MaxNumericBases {
		numericBases = numericBases[:MaxNumericBases]
	}
	numeric := make([]string, 0, len(numericBases)*43)
	for _, base := range numericBases {
		numeric = append(numeric, NumericSuffixes(base)...)
	}

	all := make([]string, 0, len(simple)+len(leet)+len(numeric))
	all = append(all, simple...)
	all = append(all, leet...)
	all = append(all, numeric...)

	return g.cleanAndFilter(all, seed.LengthPref)
}

func (g *Generator) simpleTier(seed domain.Seed) []string {
	out := make([]string, 0, 512)
	name := seed.Name

	if name != "" {
		out = append(out, expandTemplates(nameTemplates, name)...)
	}

	prefixes := capStrings(g.tables.Prefixes[seed.Style], MaxStyleAffixes)
	suffixes := capStrings(g.tables.Suffixes[seed.Style], MaxStyleAffixes)

	if name != "" {
		for _, prefix := range prefixes {
			out = append(out, prefix+name)
			out = append(out, JoinSeparators([]string{prefix, name})...)
		}
		for _, suffix := range suffixes {
			out = append(out, name+suffix)
			out = append(out, JoinSeparators([]string{name, suffix})...)
		}
	}

	interests := seed.Interests
	if len(interests) > MaxInterests {
		interests = interests[:MaxInterests]
	}
	for _, interest := range interests {
		keywords, ok := g.tables.Interests[interest]
		if !ok {
			// Unmatched tags are skipped silently, not an error.
			continue
		}
		for _, kw := range capStrings(keywords, MaxKeywordsPerInterest) {
			if name != "" {
				out = append(out, name+kw, kw+name, name+"_"+kw, kw+"_"+name)
				continue
			}
			out = append(out, kw)
			for _, prefix := range capStrings(prefixes, MaxKeywordAffixes) {
				out = append(out, prefix+kw, prefix+"_"+kw)
			}
			for _, suffix := range capStrings(suffixes, MaxKeywordAffixes) {
				out = append(out, kw+suffix, kw+"_"+suffix)
			}
		}
	}

	if name != "" {
		out = append(out, expandTemplates(creativeTemplates, name)...)
	}

	return out
}

func (g *Generator) cleanAndFilter(candidates []string, pref domain.LengthPref) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))

	for _, raw := range candidates {
		cleaned := domain.CleanHandle(raw)
		if cleaned == "" {
			continue
		}
		n := len(cleaned)
		if n < domain.MinHandleLen || n > domain.MaxHandleLen {
			continue
		}
		if !pref.AcceptsLength(n) {
			continue
		}
		if seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		out = append(out, cleaned)
	}

	return out
}

func capStrings(s []string, max int) []string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func expandTemplates(templates []string, name string) []string {
	out := make([]string, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, strings.ReplaceAll(tpl, "%s", name))
	}
	return out
}
