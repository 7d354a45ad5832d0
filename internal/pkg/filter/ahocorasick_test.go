package filter

import (
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase",
			input:    "ILLEGAL DRUGS",
			expected: "illegal drugs",
		},
		{
			name:     "leetspeak numbers",
			input:    "w3ap0n",
			expected: "weapon",
		},
		{
			name:     "at sign to a",
			input:    "we@pon",
			expected: "weapon",
		},
		{
			name:     "dollar sign to s",
			input:    "drug$",
			expected: "drugs",
		},
		{
			name:     "unicode diacritics",
			input:    "árma niño",
			expected: "arma nino",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeText(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeText(%q) = %q; want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestAhoCorasick_Build(t *testing.T) {
	ac := NewAhoCorasick()
	terms := []TermInfo{
		{Term: "weapon", Source: "seed", Reason: "violence"},
		{Term: "illegal drugs", Source: "seed", Reason: "drugs"},
	}

	ac.Build(terms)

	if !ac.HasMatch("a weapon on the table") {
		t.Error("expected to find 'weapon' in text")
	}
	if !ac.HasMatch("buy illegal drugs now") {
		t.Error("expected to find 'illegal drugs' in text")
	}
	if ac.HasMatch("a cute cat by the window") {
		t.Error("did not expect a match in clean text")
	}
}

func TestAhoCorasick_Search(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build([]TermInfo{
		{Term: "drug", Source: "seed", Reason: "drugs"},
		{Term: "illegal drugs", Source: "manual", Reason: "drugs"},
	})

	matches := ac.Search("buy illegal drugs now")

	found := map[string]string{}
	for _, m := range matches {
		found[m.Term] = m.Source
	}

	if _, ok := found["drug"]; !ok {
		t.Error("expected 'drug' substring match")
	}
	if src, ok := found["illegal drugs"]; !ok || src != "manual" {
		t.Errorf("expected 'illegal drugs' match with source manual, got %v", found)
	}
}

func TestAhoCorasick_NormalizedMatching(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build([]TermInfo{{Term: "weapon", Source: "seed", Reason: "violence"}})

	// Leetspeak and case variants must still match.
	for _, text := range []string{"WEAPON", "we@pon", "a we4pon here"} {
		if !ac.HasMatch(text) {
			t.Errorf("expected match for %q", text)
		}
	}
}

func TestAhoCorasick_RebuildResets(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build([]TermInfo{{Term: "weapon", Source: "seed"}})
	ac.Build([]TermInfo{{Term: "bomb", Source: "seed"}})

	if ac.HasMatch("weapon") {
		t.Error("rebuild should drop previous terms")
	}
	if !ac.HasMatch("bomb") {
		t.Error("rebuild should contain new terms")
	}
}
