package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"demoengine/internal/pkg/bloom"
	"demoengine/internal/pkg/filter"
	"demoengine/internal/pkg/hash"
	"demoengine/internal/pkg/prompt"
	pkgredis "demoengine/internal/pkg/redis"

	"github.com/go-kratos/kratos/v2/log"
)

// BlockSource identifies how a blocked term entered the cache.
type BlockSource string

const (
	SourceSeed   BlockSource = "seed"
	SourceGemini BlockSource = "gemini"
	SourceManual BlockSource = "manual"
)

// Blocked term length bounds.
const (
	MinTermLength = 2
	MaxTermLength = 100
)

// ErrInvalidTerm reports a blocked term outside the accepted length bounds.
var ErrInvalidTerm = errors.New("blocked term length outside [2,100]")

// BlockEntry is a blocked word or short phrase, stored case-normalized.
type BlockEntry struct {
	Term      string
	Reason    string
	Source    BlockSource
	HitCount  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlockEntryRepo is a BlockEntry repository interface. Get returns (nil, nil)
// when the term is absent.
type BlockEntryRepo interface {
	Get(context.Context, string) (*BlockEntry, error)
	Upsert(context.Context, *BlockEntry) error
	Delete(context.Context, string) (bool, error)
	ListAll(context.Context) ([]*BlockEntry, error)
	DeleteAll(context.Context) (int64, error)
	IncrementHit(context.Context, string) error
}

// BlockCheckResult is the fast-path moderation verdict for one prompt.
type BlockCheckResult struct {
	IsBlocked    bool
	Reason       string
	BlockedWords []string
	Source       BlockSource
}

// BlockStats are the running block-cache counters.
type BlockStats struct {
	TotalBlockedWords int64
	CacheHits         int64
	PromptCacheHits   int64
	BlockedBySeed     int64
	BlockedByGemini   int64
	BlockedByManual   int64
}

const (
	counterCacheHits       = "blockcache:counter:cache_hits"
	counterPromptCacheHits = "blockcache:counter:prompt_cache_hits"
	blockedPromptBloomKey  = "blockcache:blocked_prompts"
)

// seedTerms is the built-in blocked list loaded at startup. Terms are stored
// in their normalized English form; cross-language prompts reach them through
// prompt normalization.
var seedTerms = []struct {
	term   string
	reason string
}{
	{"illegal drugs", "drug content"},
	{"drug dealer", "drug content"},
	{"cocaine", "drug content"},
	{"heroin", "drug content"},
	{"meth lab", "drug content"},
	{"child abuse", "abuse content"},
	{"child porn", "csam content"},
	{"kill yourself", "self-harm content"},
	{"suicide method", "self-harm content"},
	{"how to make a bomb", "weapons content"},
	{"pipe bomb", "weapons content"},
	{"mass shooting", "violence content"},
	{"beheading", "violence content"},
	{"ethnic cleansing", "hate content"},
	{"nazi propaganda", "hate content"},
	{"revenge porn", "sexual content"},
	{"nonconsensual sex", "sexual content"},
	{"bestiality", "sexual content"},
	{"credit card dump", "illegal content"},
	{"hitman for hire", "violence content"},
}

// BlockCacheUsecase is the two-tier moderation fast path: an in-memory
// automaton over persisted blocked terms, a Redis bloom filter of previously
// blocked prompts, and atomic hit counters.
type BlockCacheUsecase struct {
	repo        BlockEntryRepo
	counters    pkgredis.Cache
	automaton   *filter.AhoCorasick
	promptBloom *bloom.Filter
	log         *log.Helper
}

// NewBlockCacheUsecase new a BlockCache usecase. Callers must Warmup before
// serving traffic.
func NewBlockCacheUsecase(repo BlockEntryRepo, cache pkgredis.Cache, logger log.Logger) *BlockCacheUsecase {
	return &BlockCacheUsecase{
		repo:        repo,
		counters:    cache,
		automaton:   filter.NewAhoCorasick(),
		promptBloom: bloom.New(cache, blockedPromptBloomKey, 1<<20, 7),
		log:         log.NewHelper(logger),
	}
}

// Warmup seeds the built-in blocked list and builds the automaton from the
// full persisted set.
func (uc *BlockCacheUsecase) Warmup(ctx context.Context) error {
	if err := uc.Seed(ctx); err != nil {
		return err
	}
	return uc.Rebuild(ctx)
}

// Seed inserts the built-in blocked terms. Reseeding is idempotent: terms
// already present are left untouched, whatever their source.
func (uc *BlockCacheUsecase) Seed(ctx context.Context) error {
	for _, s := range seedTerms {
		existing, err := uc.repo.Get(ctx, s.term)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := uc.repo.Upsert(ctx, &BlockEntry{
			Term:   s.term,
			Reason: s.reason,
			Source: SourceSeed,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Rebuild reloads every persisted entry into the automaton.
func (uc *BlockCacheUsecase) Rebuild(ctx context.Context) error {
	entries, err := uc.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	terms := make([]filter.TermInfo, 0, len(entries))
	for _, e := range entries {
		terms = append(terms, filter.TermInfo{
			Term:   e.Term,
			Source: string(e.Source),
			Reason: e.Reason,
		})
	}
	uc.automaton.Build(terms)
	uc.log.WithContext(ctx).Infof("block cache rebuilt with %d terms", len(terms))
	return nil
}

// Check runs the fast path only: it never calls the external judge. Both the
// raw text and its normalized English form are scanned, so cross-language and
// leetspeak variants of a blocked term still hit.
func (uc *BlockCacheUsecase) Check(ctx context.Context, text string) (*BlockCheckResult, error) {
	normalized := prompt.Normalize(text).Normalized
	promptKey := hash.FastSum(normalized)

	if seen, err := uc.promptBloom.Exists(ctx, promptKey); err == nil && seen {
		if _, err := uc.counters.IncrBy(ctx, counterPromptCacheHits, 1); err != nil {
			uc.log.WithContext(ctx).Warnf("prompt hit counter failed: %v", err)
		}
	}

	matches := uc.automaton.Search(text)
	matches = append(matches, uc.automaton.Search(normalized)...)
	if len(matches) == 0 {
		return &BlockCheckResult{IsBlocked: false}, nil
	}

	result := &BlockCheckResult{
		IsBlocked: true,
		Reason:    matches[0].Reason,
		Source:    BlockSource(matches[0].Source),
	}
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, dup := seen[m.Term]; dup {
			continue
		}
		seen[m.Term] = struct{}{}
		result.BlockedWords = append(result.BlockedWords, m.Term)
		if err := uc.repo.IncrementHit(ctx, m.Term); err != nil {
			uc.log.WithContext(ctx).Warnf("hit count for %q failed: %v", m.Term, err)
		}
	}

	if _, err := uc.counters.IncrBy(ctx, counterCacheHits, 1); err != nil {
		uc.log.WithContext(ctx).Warnf("cache hit counter failed: %v", err)
	}
	if err := uc.promptBloom.Add(ctx, promptKey); err != nil {
		uc.log.WithContext(ctx).Warnf("blocked prompt bloom add failed: %v", err)
	}

	return result, nil
}

// AddBlockedWord inserts or updates a blocked term. Manual additions always
// win the source; a learned entry never demotes a manual one.
func (uc *BlockCacheUsecase) AddBlockedWord(ctx context.Context, term, reason string, source BlockSource) error {
	normalized := strings.ToLower(strings.TrimSpace(term))
	if n := utf8.RuneCountInString(normalized); n < MinTermLength || n > MaxTermLength {
		return fmt.Errorf("%w: %q", ErrInvalidTerm, term)
	}

	existing, err := uc.repo.Get(ctx, normalized)
	if err != nil {
		return err
	}
	entry := &BlockEntry{Term: normalized, Reason: reason, Source: source}
	if existing != nil {
		entry.HitCount = existing.HitCount
		if source != SourceManual && existing.Source == SourceManual {
			entry.Source = SourceManual
			entry.Reason = existing.Reason
		}
	}
	if err := uc.repo.Upsert(ctx, entry); err != nil {
		return err
	}
	uc.log.WithContext(ctx).Infof("blocked term %q added (source=%s)", normalized, entry.Source)
	return uc.Rebuild(ctx)
}

// RemoveBlockedWord deletes one exact term and reports whether it existed.
func (uc *BlockCacheUsecase) RemoveBlockedWord(ctx context.Context, term string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(term))
	found, err := uc.repo.Delete(ctx, normalized)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return true, uc.Rebuild(ctx)
}

// Clear drops every entry, the blocked-prompt bloom and the counters. Returns
// the number of removed terms for the audit log.
func (uc *BlockCacheUsecase) Clear(ctx context.Context) (int64, error) {
	removed, err := uc.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := uc.promptBloom.Reset(ctx); err != nil {
		uc.log.WithContext(ctx).Warnf("bloom reset failed: %v", err)
	}
	if _, err := uc.counters.Del(ctx, counterCacheHits, counterPromptCacheHits); err != nil {
		uc.log.WithContext(ctx).Warnf("counter reset failed: %v", err)
	}
	uc.log.WithContext(ctx).Infof("block cache cleared, %d terms removed", removed)
	return removed, uc.Rebuild(ctx)
}

// Stats returns the running counters and per-source totals.
func (uc *BlockCacheUsecase) Stats(ctx context.Context) (*BlockStats, error) {
	entries, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := &BlockStats{TotalBlockedWords: int64(len(entries))}
	for _, e := range entries {
		switch e.Source {
		case SourceSeed:
			stats.BlockedBySeed++
		case SourceGemini:
			stats.BlockedByGemini++
		case SourceManual:
			stats.BlockedByManual++
		}
	}
	stats.CacheHits = uc.counter(ctx, counterCacheHits)
	stats.PromptCacheHits = uc.counter(ctx, counterPromptCacheHits)
	return stats, nil
}

// ListBlockedWords returns every persisted entry for the admin surface.
func (uc *BlockCacheUsecase) ListBlockedWords(ctx context.Context) ([]*BlockEntry, error) {
	return uc.repo.ListAll(ctx)
}

func (uc *BlockCacheUsecase) counter(ctx context.Context, key string) int64 {
	v, err := uc.counters.GetInt64(ctx, key)
	if err != nil {
		if !errors.Is(err, pkgredis.Nil) {
			uc.log.WithContext(ctx).Warnf("counter %s read failed: %v", key, err)
		}
		return 0
	}
	return v
}
