package gen

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/ndelvaux/handleforge/internal/domain"
)

var handleRe = regexp.MustCompile(`^[a-z][a-z0-9_]{4,31}$`)

func TestGenerateDeterministic(t *testing.T) {
	g := NewGenerator(defaultTables())
	seed := domain.Seed{
		Name:       "Alex",
		Interests:  []string{"music", "tech"},
		Style:      domain.StyleCool,
		LengthPref: domain.LengthAny,
	}

	first := g.Generate(seed)
	second := g.Generate(seed)

	if len(first) == 0 {
		t.Fatal("Generate() returned no candidates for a populated seed")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Generate() is not deterministic for an identical seed")
	}
}

func TestGenerateGrammarAndDedup(t *testing.T) {
	g := NewGenerator(defaultTables())
	got := g.Generate(domain.Seed{
		Name:       "storm",
		Interests:  []string{"gaming"},
		Style:      domain.StyleHacker,
		LengthPref: domain.LengthAny,
	})

	seen := make(map[string]bool, len(got))
	for _, h := range got {
		if !handleRe.MatchString(h) {
			t.Errorf("candidate %q violates the handle grammar", h)
		}
		if seen[h] {
			t.Errorf("candidate %q emitted more than once", h)
		}
		seen[h] = true
	}
}

func TestGenerateLengthPref(t *testing.T) {
	g := NewGenerator(defaultTables())

	tests := []struct {
		name     string
		pref     domain.LengthPref
		min, max int
	}{
		{name: "short caps at ten", pref: domain.LengthShort, min: domain.MinHandleLen, max: 10},
		{name: "medium is eight to sixteen", pref: domain.LengthMedium, min: 8, max: 16},
		{name: "long starts at twelve", pref: domain.LengthLong, min: 12, max: domain.MaxHandleLen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Generate(domain.Seed{Name: "alex", LengthPref: tt.pref})
			if len(got) == 0 {
				t.Fatal("Generate() returned no candidates")
			}
			for _, h := range got {
				if len(h) < tt.min || len(h) > tt.max {
					t.Errorf("candidate %q has length %d, want %d..%d", h, len(h), tt.min, tt.max)
				}
			}
		})
	}
}

// A short name survives only through its extended forms: "alex" is below the
// minimum handle length, but "alexx" clears it.
func TestGenerateShortNameExtended(t *testing.T) {
	g := NewGenerator(defaultTables())
	got := g.Generate(domain.Seed{Name: "alex", LengthPref: domain.LengthShort})

	if indexOf(got, "alex") != -1 {
		t.Error("Generate() emitted \"alex\", which is below the minimum length")
	}
	if indexOf(got, "alexx") == -1 {
		t.Error("Generate() did not emit \"alexx\"")
	}
}

func TestGenerateTierOrder(t *testing.T) {
	g := NewGenerator(defaultTables())
	got := g.Generate(domain.Seed{Name: "storm", LengthPref: domain.LengthAny})

	simple := indexOf(got, "stormx")
	leet := indexOf(got, "st0rm")
	numeric := indexOf(got, "storm0")

	if simple == -1 || leet == -1 || numeric == -1 {
		t.Fatalf("missing expected candidates: stormx=%d st0rm=%d storm0=%d", simple, leet, numeric)
	}
	if !(simple < leet && leet < numeric) {
		t.Errorf("tier order violated: stormx=%d st0rm=%d storm0=%d, want simple < leet < numeric", simple, leet, numeric)
	}
	if got[0] != "storm" {
		t.Errorf("first candidate = %q, want the bare name first", got[0])
	}
}

func TestGenerateInterestsWithoutName(t *testing.T) {
	g := NewGenerator(defaultTables())
	got := g.Generate(domain.Seed{
		Interests:  []string{"music"},
		LengthPref: domain.LengthAny,
	})

	for _, want := range []string{"beats", "xbeats", "x_beats"} {
		if indexOf(got, want) == -1 {
			t.Errorf("Generate() missing keyword candidate %q", want)
		}
	}
}

func TestGenerateCombinesNameAndKeyword(t *testing.T) {
	g := NewGenerator(defaultTables())
	got := g.Generate(domain.Seed{
		Name:       "alex",
		Interests:  []string{"music"},
		LengthPref: domain.LengthAny,
	})

	for _, want := range []string{"alexbeats", "beatsalex", "alex_beats", "beats_alex"} {
		if indexOf(got, want) == -1 {
			t.Errorf("Generate() missing name+keyword candidate %q", want)
		}
	}
}

func TestGenerateEmptyOutcomes(t *testing.T) {
	g := NewGenerator(defaultTables())

	tests := []struct {
		name string
		seed domain.Seed
	}{
		{name: "empty seed", seed: domain.Seed{}},
		{name: "unmatched interest only", seed: domain.Seed{Interests: []string{"quantumknitting"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Generate(tt.seed); len(got) != 0 {
				t.Errorf("Generate() = %d candidates, want none", len(got))
			}
		})
	}
}

func indexOf(s []string, target string) int {
	for i, v := range s {
		if v == target {
			return i
		}
	}
	return -1
}
