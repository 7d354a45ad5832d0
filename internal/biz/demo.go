package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"demoengine/internal/pkg/match"
	"demoengine/internal/pkg/prompt"

	"github.com/go-kratos/kratos/v2/log"
)

// ErrCorpusUnavailable reports that the demo corpus could not be read. It is
// distinct from a clean no-match so callers do not trigger generation on a
// storage outage.
var ErrCorpusUnavailable = errors.New("demo corpus unavailable")

// ErrDemoNotFound reports a lookup for an id that does not exist.
var ErrDemoNotFound = errors.New("demo not found")

// Demo is a generated demo record. The normalized prompt is always derivable
// by re-running normalization on the original; it is stored to avoid
// recomputation during corpus scans.
type Demo struct {
	ID               string
	PromptOriginal   string
	PromptNormalized string
	PromptLanguage   string
	Keywords         []string
	ImageURLBefore   string
	ImageURLAfter    string
	VideoURL         string
	ThumbnailURL     string
	StyleName        string
	StyleSlug        string
	CategorySlug     string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ExpiresAt        *time.Time
}

// DemoRepo is a Demo repository interface.
type DemoRepo interface {
	Create(context.Context, *Demo) (*Demo, error)
	FindByID(context.Context, string) (*Demo, error)
	ListActive(context.Context) ([]*Demo, error)
	ListActiveByCategory(context.Context, string) ([]*Demo, error)
	// Random picks an active demo, restricted to a category when one is
	// given.
	Random(ctx context.Context, category string) (*Demo, error)
	ListVideosByCategory(context.Context, string) ([]*Demo, error)
	CountVideosByCategory(context.Context, string) (int64, error)
	Deactivate(context.Context, string) error
	DeactivateOlderThan(context.Context, time.Time) (int64, error)
}

// MatchResult is the outcome of a corpus search.
type MatchResult struct {
	Found           bool
	Demo            *Demo
	Score           float64
	MatchedKeywords []string
}

// DemoUsecase owns the demo corpus and the match scan over it.
type DemoUsecase struct {
	repo    DemoRepo
	matcher match.Matcher
	log     *log.Helper
}

// NewDemoUsecase new a Demo usecase.
func NewDemoUsecase(repo DemoRepo, matcher match.Matcher, logger log.Logger) *DemoUsecase {
	return &DemoUsecase{
		repo:    repo,
		matcher: matcher,
		log:     log.NewHelper(logger),
	}
}

// FindBestMatch scans active demos for the best match to the analyzed prompt.
// The scan is restricted to the classified category when one is available and
// non-empty there, otherwise it covers the full corpus.
func (uc *DemoUsecase) FindBestMatch(ctx context.Context, analysis *prompt.Analysis) (*MatchResult, error) {
	demos, err := uc.snapshot(ctx, analysis.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}

	docs := make([]match.Document, 0, len(demos))
	byID := make(map[string]*Demo, len(demos))
	for _, d := range demos {
		docs = append(docs, match.Document{
			ID:           d.ID,
			Normalized:   d.PromptNormalized,
			Keywords:     d.Keywords,
			StyleSlug:    d.StyleSlug,
			CategorySlug: d.CategorySlug,
			CreatedAt:    d.CreatedAt,
		})
		byID[d.ID] = d
	}

	res := uc.matcher.Best(match.Query{
		Normalized:     analysis.Normalized,
		Keywords:       analysis.Keywords,
		PreferredStyle: analysis.Style,
	}, docs)
	if !res.Found {
		return &MatchResult{Found: false}, nil
	}

	uc.log.WithContext(ctx).Infof("matched demo %s with score %.3f", res.ID, res.Score)
	return &MatchResult{
		Found:           true,
		Demo:            byID[res.ID],
		Score:           res.Score,
		MatchedKeywords: res.MatchedKeywords,
	}, nil
}

func (uc *DemoUsecase) snapshot(ctx context.Context, category string) ([]*Demo, error) {
	if category != "" {
		demos, err := uc.repo.ListActiveByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		if len(demos) > 0 {
			return demos, nil
		}
	}
	return uc.repo.ListActive(ctx)
}

// CreateDemo persists a freshly generated demo.
func (uc *DemoUsecase) CreateDemo(ctx context.Context, demo *Demo) (*Demo, error) {
	demo.IsActive = true
	created, err := uc.repo.Create(ctx, demo)
	if err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("created demo %s (category=%s style=%s)", created.ID, created.CategorySlug, created.StyleSlug)
	return created, nil
}

// GetDemo returns one demo by id.
func (uc *DemoUsecase) GetDemo(ctx context.Context, id string) (*Demo, error) {
	return uc.repo.FindByID(ctx, id)
}

// RandomDemo returns a random active demo, optionally restricted to a
// category, or ErrDemoNotFound on an empty corpus.
func (uc *DemoUsecase) RandomDemo(ctx context.Context, category string) (*Demo, error) {
	return uc.repo.Random(ctx, category)
}

// ListVideosByCategory lists active demos with a generated video in a
// category.
func (uc *DemoUsecase) ListVideosByCategory(ctx context.Context, category string) ([]*Demo, error) {
	return uc.repo.ListVideosByCategory(ctx, category)
}

// CountVideosByCategory counts active demos with a generated video in a
// category.
func (uc *DemoUsecase) CountVideosByCategory(ctx context.Context, category string) (int64, error) {
	return uc.repo.CountVideosByCategory(ctx, category)
}

// CleanupExpired soft-deletes demos created before the retention cutoff, or
// past their own expiry, and returns how many were deactivated.
func (uc *DemoUsecase) CleanupExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	n, err := uc.repo.DeactivateOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.WithContext(ctx).Infof("deactivated %d expired demos", n)
	}
	return n, nil
}
