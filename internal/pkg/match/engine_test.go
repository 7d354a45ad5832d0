package match

import (
	"testing"
	"time"
)

func TestTextSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"cat", "cat", 1},
		{"", "", 1},
		{"abcd", "abxy", 0.5},
		{"cat", "", 0},
	}
	for _, tt := range tests {
		if got := TextSimilarity(tt.a, tt.b); got != tt.want {
			t.Errorf("TextSimilarity(%q, %q) = %f; want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLinearScanner_EnglishScenario(t *testing.T) {
	s := NewLinearScanner(DefaultConfig())
	docs := []Document{{
		ID:         "demo-1",
		Normalized: "cat sitting window sunset",
		Keywords:   []string{"cat", "sitting", "window", "sunset"},
	}}

	res := s.Best(Query{
		Normalized: "cat sits window sunset",
		Keywords:   []string{"cat", "sits", "window", "sunset"},
	}, docs)

	if !res.Found {
		t.Fatal("expected a match")
	}
	if res.ID != "demo-1" {
		t.Errorf("matched %q", res.ID)
	}
	if res.Score < 0.55 {
		t.Errorf("score = %f; want >= 0.55", res.Score)
	}

	got := map[string]bool{}
	for _, k := range res.MatchedKeywords {
		got[k] = true
	}
	for _, want := range []string{"cat", "window", "sunset"} {
		if !got[want] {
			t.Errorf("matched keywords %v missing %q", res.MatchedKeywords, want)
		}
	}
}

func TestLinearScanner_ThresholdInclusive(t *testing.T) {
	// Weights of 0.5/0.5 with keyword Jaccard 0.5 and identical normalized
	// strings produce an exactly representable score of 0.75.
	cfg := Config{KeywordWeight: 0.5, TextWeight: 0.5, StyleBonus: 0.1, MinScore: 0.75}
	doc := Document{
		ID:         "demo-1",
		Normalized: "cat window",
		Keywords:   []string{"cat", "window", "sunset", "tree"},
	}
	query := Query{
		Normalized: "cat window",
		Keywords:   []string{"cat", "window"},
	}

	if res := NewLinearScanner(cfg).Best(query, []Document{doc}); !res.Found {
		t.Errorf("score at exactly MinScore must match; got %+v", res)
	}

	cfg.MinScore = 0.76
	if res := NewLinearScanner(cfg).Best(query, []Document{doc}); res.Found {
		t.Errorf("score below MinScore must not match; got %+v", res)
	}
}

func TestLinearScanner_StyleBonus(t *testing.T) {
	cfg := Config{KeywordWeight: 0.5, TextWeight: 0.5, StyleBonus: 0.1, MinScore: 0.8}
	doc := Document{
		ID:         "demo-1",
		Normalized: "cat window",
		Keywords:   []string{"cat", "window", "sunset", "tree"},
		StyleSlug:  "cute_anime",
	}
	query := Query{
		Normalized: "cat window",
		Keywords:   []string{"cat", "window"},
	}

	// 0.75 without the bonus, 0.85 with it.
	if res := NewLinearScanner(cfg).Best(query, []Document{doc}); res.Found {
		t.Errorf("expected no match without preferred style; got %+v", res)
	}

	query.PreferredStyle = "cute_anime"
	res := NewLinearScanner(cfg).Best(query, []Document{doc})
	if !res.Found {
		t.Fatal("expected style bonus to push score over threshold")
	}
}

func TestLinearScanner_ScoreCappedAtOne(t *testing.T) {
	s := NewLinearScanner(DefaultConfig())
	doc := Document{
		ID:         "demo-1",
		Normalized: "cute cat",
		Keywords:   []string{"cute", "cat"},
		StyleSlug:  "cute_anime",
	}
	res := s.Best(Query{
		Normalized:     "cute cat",
		Keywords:       []string{"cute", "cat"},
		PreferredStyle: "cute_anime",
	}, []Document{doc})

	if !res.Found {
		t.Fatal("expected match")
	}
	if res.Score > 1 {
		t.Errorf("score = %f; want capped at 1.0", res.Score)
	}
}

func TestLinearScanner_TieBreakMostRecent(t *testing.T) {
	s := NewLinearScanner(DefaultConfig())
	older := Document{
		ID:         "older",
		Normalized: "cute cat",
		Keywords:   []string{"cute", "cat"},
		CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := older
	newer.ID = "newer"
	newer.CreatedAt = older.CreatedAt.Add(24 * time.Hour)

	res := s.Best(Query{
		Normalized: "cute cat",
		Keywords:   []string{"cute", "cat"},
	}, []Document{older, newer})

	if res.ID != "newer" {
		t.Errorf("matched %q; want most recently created on tie", res.ID)
	}
}

func TestLinearScanner_EmptyCorpus(t *testing.T) {
	s := NewLinearScanner(DefaultConfig())
	if res := s.Best(Query{Normalized: "anything", Keywords: []string{"anything"}}, nil); res.Found {
		t.Errorf("empty corpus must never match; got %+v", res)
	}
}
