package sanitize

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "la cantine devrait proposer plus de plats",
			max:      500,
			expected: "la cantine devrait proposer plus de plats",
		},
		{
			name:     "strips tags",
			input:    "<script>alert(1)</script>bonjour",
			max:      500,
			expected: "alert(1)bonjour",
		},
		{
			name:     "strips nested markup keeps text",
			input:    "<p>des <b>casiers</b> au gymnase</p>",
			max:      500,
			expected: "des casiers au gymnase",
		},
		{
			name:     "collapses whitespace and trims",
			input:    "  plus   de\n\tbancs  ",
			max:      500,
			expected: "plus de bancs",
		},
		{
			name:     "unescapes entities",
			input:    "salle d&#39;&eacute;tude",
			max:      500,
			expected: "salle d'étude",
		},
		{
			name:     "entity-encoded markup does not survive decoding",
			input:    "&lt;script&gt;alert(1)&lt;/script&gt;bonjour",
			max:      500,
			expected: "alert(1)bonjour",
		},
		{
			name:     "truncates to max runes",
			input:    "abcdefghij",
			max:      4,
			expected: "abcd",
		},
		{
			name:     "unclosed tag dropped to end",
			input:    "ok <img src=x onerror=alert(1)",
			max:      500,
			expected: "ok",
		},
		{
			name:     "empty input",
			input:    "",
			max:      500,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("Clean(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	// Multibyte runes must not be split mid-sequence
	got := Truncate("éléves", 3)
	if got != "élé" {
		t.Errorf("Truncate = %q, want %q", got, "élé")
	}

	if Truncate("abc", 0) != "" {
		t.Error("Truncate with max 0 should return empty string")
	}
	if Truncate("abc", 10) != "abc" {
		t.Error("Truncate should not pad short strings")
	}
}
