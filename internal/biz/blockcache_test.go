package biz

import (
	"context"
	"errors"
	"testing"
)

func newTestBlockCache(t *testing.T) (*BlockCacheUsecase, *fakeBlockRepo, *fakeCache) {
	t.Helper()
	repo := newFakeBlockRepo()
	cache := newFakeCache()
	uc := NewBlockCacheUsecase(repo, cache, testLogger())
	if err := uc.Warmup(context.Background()); err != nil {
		t.Fatalf("Warmup: %v", err)
	}
	return uc, repo, cache
}

func TestBlockCache_SeedIdempotent(t *testing.T) {
	uc, repo, _ := newTestBlockCache(t)
	ctx := context.Background()

	if err := uc.Warmup(ctx); err != nil {
		t.Fatalf("second Warmup: %v", err)
	}

	entries, _ := repo.ListAll(ctx)
	if len(entries) != len(seedTerms) {
		t.Errorf("reseed produced %d entries; want %d", len(entries), len(seedTerms))
	}
	for _, e := range entries {
		if e.Source != SourceSeed {
			t.Errorf("entry %q has source %s; want seed", e.Term, e.Source)
		}
	}
}

func TestBlockCache_CheckBlockedPhrase(t *testing.T) {
	uc, repo, cache := newTestBlockCache(t)
	ctx := context.Background()

	res, err := uc.Check(ctx, "buy illegal drugs now")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.IsBlocked {
		t.Fatal("expected seeded phrase to block")
	}
	if res.Source != SourceSeed {
		t.Errorf("source = %s; want seed", res.Source)
	}
	found := false
	for _, w := range res.BlockedWords {
		if w == "illegal drugs" {
			found = true
		}
	}
	if !found {
		t.Errorf("blocked words %v missing \"illegal drugs\"", res.BlockedWords)
	}

	entry, _ := repo.Get(ctx, "illegal drugs")
	if entry.HitCount != 1 {
		t.Errorf("hit count = %d; want 1", entry.HitCount)
	}
	if cache.ints[counterCacheHits] != 1 {
		t.Errorf("cache hit counter = %d; want 1", cache.ints[counterCacheHits])
	}
}

func TestBlockCache_CheckClean(t *testing.T) {
	uc, _, _ := newTestBlockCache(t)

	res, err := uc.Check(context.Background(), "a cute cat by the window")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.IsBlocked {
		t.Errorf("clean prompt blocked: %+v", res)
	}
}

func TestBlockCache_CheckLeetspeakVariant(t *testing.T) {
	uc, _, _ := newTestBlockCache(t)

	res, err := uc.Check(context.Background(), "where to find 1llegal drug5")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.IsBlocked {
		t.Error("leetspeak variant of a seeded term must block")
	}
}

func TestBlockCache_AddRemoveBlockedWord(t *testing.T) {
	uc, _, _ := newTestBlockCache(t)
	ctx := context.Background()

	if err := uc.AddBlockedWord(ctx, "Forbidden Thing", "test", SourceManual); err != nil {
		t.Fatalf("AddBlockedWord: %v", err)
	}

	res, _ := uc.Check(ctx, "a forbidden thing appears")
	if !res.IsBlocked || res.Source != SourceManual {
		t.Fatalf("expected manual block; got %+v", res)
	}

	found, err := uc.RemoveBlockedWord(ctx, "forbidden thing")
	if err != nil || !found {
		t.Fatalf("RemoveBlockedWord = (%v, %v); want (true, nil)", found, err)
	}
	if found, _ := uc.RemoveBlockedWord(ctx, "forbidden thing"); found {
		t.Error("second removal reported found")
	}

	res, _ = uc.Check(ctx, "a forbidden thing appears")
	if res.IsBlocked {
		t.Error("removed term still blocks")
	}
}

func TestBlockCache_AddBlockedWordValidation(t *testing.T) {
	uc, _, _ := newTestBlockCache(t)
	ctx := context.Background()

	if err := uc.AddBlockedWord(ctx, "x", "too short", SourceManual); !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("short term error = %v; want ErrInvalidTerm", err)
	}

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	if err := uc.AddBlockedWord(ctx, string(long), "too long", SourceManual); !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("long term error = %v; want ErrInvalidTerm", err)
	}
}

func TestBlockCache_SourcePrecedence(t *testing.T) {
	uc, repo, _ := newTestBlockCache(t)
	ctx := context.Background()

	if err := uc.AddBlockedWord(ctx, "gray area", "learned", SourceGemini); err != nil {
		t.Fatalf("add gemini: %v", err)
	}
	if err := uc.AddBlockedWord(ctx, "gray area", "admin says no", SourceManual); err != nil {
		t.Fatalf("add manual: %v", err)
	}
	entry, _ := repo.Get(ctx, "gray area")
	if entry.Source != SourceManual {
		t.Errorf("manual add did not take over source: %s", entry.Source)
	}

	if err := uc.AddBlockedWord(ctx, "gray area", "learned again", SourceGemini); err != nil {
		t.Fatalf("re-add gemini: %v", err)
	}
	entry, _ = repo.Get(ctx, "gray area")
	if entry.Source != SourceManual {
		t.Errorf("gemini add demoted a manual entry: %s", entry.Source)
	}
	if entry.Reason != "admin says no" {
		t.Errorf("gemini add overwrote the manual reason: %q", entry.Reason)
	}
}

func TestBlockCache_Clear(t *testing.T) {
	uc, repo, cache := newTestBlockCache(t)
	ctx := context.Background()

	uc.Check(ctx, "buy illegal drugs now")

	removed, err := uc.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != int64(len(seedTerms)) {
		t.Errorf("removed = %d; want %d", removed, len(seedTerms))
	}
	if entries, _ := repo.ListAll(ctx); len(entries) != 0 {
		t.Errorf("%d entries survive a clear", len(entries))
	}
	if _, ok := cache.ints[counterCacheHits]; ok {
		t.Error("hit counter survives a clear")
	}

	res, _ := uc.Check(ctx, "buy illegal drugs now")
	if res.IsBlocked {
		t.Error("cleared cache still blocks")
	}
}

func TestBlockCache_Stats(t *testing.T) {
	uc, _, _ := newTestBlockCache(t)
	ctx := context.Background()

	uc.AddBlockedWord(ctx, "manual term", "admin", SourceManual)
	uc.AddBlockedWord(ctx, "learned term", "judge", SourceGemini)
	uc.Check(ctx, "buy illegal drugs now")
	uc.Check(ctx, "a manual term here")

	stats, err := uc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if want := int64(len(seedTerms) + 2); stats.TotalBlockedWords != want {
		t.Errorf("total = %d; want %d", stats.TotalBlockedWords, want)
	}
	if stats.BlockedBySeed != int64(len(seedTerms)) {
		t.Errorf("seed count = %d", stats.BlockedBySeed)
	}
	if stats.BlockedByManual != 1 || stats.BlockedByGemini != 1 {
		t.Errorf("per-source counts = manual %d, gemini %d", stats.BlockedByManual, stats.BlockedByGemini)
	}
	if stats.CacheHits != 2 {
		t.Errorf("cache hits = %d; want 2", stats.CacheHits)
	}
}
