package gen

import (
	"reflect"
	"testing"
)

func TestLeetVariants(t *testing.T) {
	tables := defaultTables()

	tests := []struct {
		name     string
		base     string
		expected []string
	}{
		{
			name:     "two rules expand and combine",
			base:     "cool",
			expected: []string{"cool", "c00l", "coo1", "c001"},
		},
		{
			name:     "single matching rule",
			base:     "xyz",
			expected: []string{"xyz", "xy2"},
		},
		{
			name:     "no matching rule keeps only the original",
			base:     "mmm",
			expected: []string{"mmm"},
		},
		{
			name:     "rule order drives variant order",
			base:     "alex",
			expected: []string{"alex", "a1ex", "4lex", "41ex"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tables.LeetVariants(tt.base)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("LeetVariants(%q) = %v, want %v", tt.base, got, tt.expected)
			}
		})
	}
}

func TestLeetVariantsDeduplicated(t *testing.T) {
	tables := defaultTables()

	got := tables.LeetVariants("loop")
	seen := make(map[string]bool, len(got))
	for _, v := range got {
		if seen[v] {
			t.Errorf("LeetVariants(\"loop\") contains duplicate %q in %v", v, got)
		}
		seen[v] = true
	}
	if got[0] != "loop" {
		t.Errorf("LeetVariants(\"loop\")[0] = %q, want the original base first", got[0])
	}
}

func TestNumericSuffixes(t *testing.T) {
	got := NumericSuffixes("x")

	if len(got) != 43 {
		t.Fatalf("NumericSuffixes(\"x\") returned %d entries, want 43", len(got))
	}

	// Single digits first, then multiples of 11, then the memorable list,
	// then year patterns. Truncating consumers depend on this order.
	expectedHead := []string{
		"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7", "x8", "x9",
		"x11", "x22", "x33", "x44", "x55", "x66", "x77", "x88", "x99",
		"x13", "x17", "x21", "x69",
	}
	for i, want := range expectedHead {
		if got[i] != want {
			t.Errorf("NumericSuffixes(\"x\")[%d] = %q, want %q", i, got[i], want)
		}
	}

	if got[len(got)-1] != "x05" {
		t.Errorf("NumericSuffixes(\"x\") last entry = %q, want \"x05\"", got[len(got)-1])
	}
}

func TestJoinSeparators(t *testing.T) {
	got := JoinSeparators([]string{"dark", "alex"})
	expected := []string{"darkalex", "dark_alex"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("JoinSeparators() = %v, want %v", got, expected)
	}
}
