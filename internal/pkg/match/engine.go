// Package match scores normalized prompts against a corpus of existing demo
// documents. The default implementation is a linear scan; the corpus is
// bounded by the pre-generated demo count, so no index is needed, but Matcher
// lets one be swapped in without touching callers.
package match

import "time"

// Document is a corpus entry viewed by the matcher.
type Document struct {
	ID           string
	Normalized   string
	Keywords     []string
	StyleSlug    string
	CategorySlug string
	CreatedAt    time.Time
}

// Query is a normalized prompt to match.
type Query struct {
	Normalized     string
	Keywords       []string
	PreferredStyle string
}

// Result is the outcome of a corpus search.
type Result struct {
	Found           bool
	ID              string
	Score           float64
	MatchedKeywords []string
}

// Config holds the scoring weights. The split and threshold are tunable, not
// load-bearing; defaults mirror validated values.
type Config struct {
	KeywordWeight float64 // weight of keyword-set Jaccard
	TextWeight    float64 // weight of edit-distance similarity
	StyleBonus    float64 // additive bonus for a preferred-style hit
	MinScore      float64 // inclusive acceptance threshold
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		KeywordWeight: 0.6,
		TextWeight:    0.4,
		StyleBonus:    0.1,
		MinScore:      0.55,
	}
}

// Matcher finds the best corpus document for a query.
type Matcher interface {
	Best(query Query, docs []Document) Result
}

// LinearScanner scores every document and keeps the best one.
type LinearScanner struct {
	cfg Config
}

// NewLinearScanner creates a scanner with the given scoring config.
func NewLinearScanner(cfg Config) *LinearScanner {
	return &LinearScanner{cfg: cfg}
}

// Best returns the highest-scoring document at or above MinScore, or
// Found=false. Score ties are broken by the most recently created document.
func (s *LinearScanner) Best(query Query, docs []Document) Result {
	var (
		best      *Document
		bestScore float64
		matched   []string
	)

	for i := range docs {
		doc := &docs[i]
		score, overlap := s.score(query, doc)
		if score < s.cfg.MinScore {
			continue
		}
		if best == nil || score > bestScore ||
			(score == bestScore && doc.CreatedAt.After(best.CreatedAt)) {
			best = doc
			bestScore = score
			matched = overlap
		}
	}

	if best == nil {
		return Result{Found: false}
	}
	return Result{
		Found:           true,
		ID:              best.ID,
		Score:           bestScore,
		MatchedKeywords: matched,
	}
}

func (s *LinearScanner) score(query Query, doc *Document) (float64, []string) {
	overlap := intersect(query.Keywords, doc.Keywords)
	keywordScore := keywordJaccard(query.Keywords, doc.Keywords, len(overlap))
	textScore := TextSimilarity(query.Normalized, doc.Normalized)

	score := s.cfg.KeywordWeight*keywordScore + s.cfg.TextWeight*textScore
	if query.PreferredStyle != "" && query.PreferredStyle == doc.StyleSlug {
		score += s.cfg.StyleBonus
	}
	if score > 1 {
		score = 1
	}
	return score, overlap
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, k := range b {
		set[k] = struct{}{}
	}
	var overlap []string
	for _, k := range a {
		if _, ok := set[k]; ok {
			overlap = append(overlap, k)
		}
	}
	return overlap
}

func keywordJaccard(a, b []string, intersection int) float64 {
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
