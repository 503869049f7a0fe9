package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		max      int
		expected string
	}{
		{
			name:     "Short string untouched",
			in:       "Housing Grant",
			max:      60,
			expected: "Housing Grant",
		},
		{
			name:     "Long string gets ellipsis",
			in:       strings.Repeat("a", 70),
			max:      60,
			expected: strings.Repeat("a", 57) + "...",
		},
		{
			name:     "Exactly max is untouched",
			in:       strings.Repeat("b", 60),
			max:      60,
			expected: strings.Repeat("b", 60),
		},
		{
			name:     "Multibyte title is cut on rune boundaries",
			in:       strings.Repeat("é", 70),
			max:      60,
			expected: strings.Repeat("é", 57) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
