package utils

import (
	"testing"
)

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "with spaces",
			input:    "ABC 1234",
			expected: "ABC1234",
		},
		{
			name:     "lowercase",
			input:    "abc1234",
			expected: "ABC1234",
		},
		{
			name:     "with dashes",
			input:    "ABC-1234",
			expected: "ABC1234",
		},
		{
			name:     "mixed case with spaces",
			input:    "aBc 12 34",
			expected: "ABC1234",
		},
		{
			name:     "already normalized",
			input:    "ABC1234",
			expected: "ABC1234",
		},
		{
			name:     "leading and trailing spaces",
			input:    "  ABC 1234  ",
			expected: "ABC1234",
		},
		{
			name:     "tabs and fullwidth space",
			input:    "ABC\t12　34",
			expected: "ABC1234",
		},
		{
			name:     "other punctuation kept",
			input:    "abc.1234",
			expected: "ABC.1234",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only separators",
			input:    " - - ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizePlate(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizePlate(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizePlateIdempotent(t *testing.T) {
	inputs := []string{"ABC-1234", "abc 1234", "  kz 123 abc  ", "", "A-B-C"}
	for _, in := range inputs {
		once := NormalizePlate(in)
		twice := NormalizePlate(once)
		if once != twice {
			t.Errorf("NormalizePlate not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizePlateEquivalence(t *testing.T) {
	variants := []string{"ABC-1234", "abc 1234", "ABC1234", "aBc-12 34"}
	want := NormalizePlate(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizePlate(v); got != want {
			t.Errorf("NormalizePlate(%q) = %q, want %q", v, got, want)
		}
	}
}
