package biz

import (
	"context"
	"errors"
	"testing"

	"demoengine/internal/pkg/llm"
)

func newTestModeration(t *testing.T, judge ModerationJudge, config ModerationConfig) (*ModerationUsecase, *BlockCacheUsecase) {
	t.Helper()
	cache, _, _ := newTestBlockCache(t)
	return NewModerationUsecase(cache, judge, config, testLogger()), cache
}

func TestModerate_CacheHitSkipsJudge(t *testing.T) {
	judge := &fakeJudge{judgment: &llm.Judgment{IsSafe: true}}
	uc, _ := newTestModeration(t, judge, DefaultModerationConfig())

	decision, err := uc.Moderate(context.Background(), "buy illegal drugs now")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if decision.IsSafe {
		t.Error("seeded phrase allowed")
	}
	if decision.Source != DecisionSourceCache {
		t.Errorf("source = %s; want cache", decision.Source)
	}
	if judge.callCount() != 0 {
		t.Errorf("judge called %d times on a cache hit", judge.callCount())
	}
}

func TestModerate_SafeExternal(t *testing.T) {
	judge := &fakeJudge{judgment: &llm.Judgment{IsSafe: true, Confidence: 0.95}}
	uc, _ := newTestModeration(t, judge, DefaultModerationConfig())

	decision, err := uc.Moderate(context.Background(), "a cute cat by the window")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if !decision.IsSafe {
		t.Errorf("safe prompt denied: %+v", decision)
	}
	if decision.Source != DecisionSourceExternal {
		t.Errorf("source = %s; want external", decision.Source)
	}
	if decision.Confidence != 0.95 {
		t.Errorf("confidence = %f", decision.Confidence)
	}
	if judge.callCount() != 1 {
		t.Errorf("judge called %d times; want 1", judge.callCount())
	}
}

func TestModerate_LearningClosesTheLoop(t *testing.T) {
	judge := &fakeJudge{judgment: &llm.Judgment{
		IsSafe:       false,
		Reason:       "drug content",
		Categories:   []string{"illegal"},
		BlockedTerms: []string{"zorblax powder"},
		Confidence:   0.9,
	}}
	uc, cache := newTestModeration(t, judge, DefaultModerationConfig())
	ctx := context.Background()

	first, err := uc.Moderate(ctx, "order zorblax powder today")
	if err != nil {
		t.Fatalf("first Moderate: %v", err)
	}
	if first.IsSafe || first.Source != DecisionSourceExternal {
		t.Fatalf("first decision = %+v; want external deny", first)
	}

	res, _ := cache.Check(ctx, "order zorblax powder today")
	if !res.IsBlocked || res.Source != SourceGemini {
		t.Fatalf("learned term not in cache: %+v", res)
	}

	second, err := uc.Moderate(ctx, "order zorblax powder today")
	if err != nil {
		t.Fatalf("second Moderate: %v", err)
	}
	if second.IsSafe || second.Source != DecisionSourceCache {
		t.Errorf("second decision = %+v; want cache deny", second)
	}
	if judge.callCount() != 1 {
		t.Errorf("judge called %d times; the learned term must keep the second prompt off the external path", judge.callCount())
	}
}

func TestModerate_JudgeFailureFailClosed(t *testing.T) {
	judge := &fakeJudge{err: errors.New("upstream 503")}
	uc, _ := newTestModeration(t, judge, DefaultModerationConfig())

	decision, err := uc.Moderate(context.Background(), "a cute cat by the window")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if decision.IsSafe {
		t.Error("fail-closed gate allowed a prompt with the judge down")
	}
	if decision.Reason != ReasonModerationUnavailable {
		t.Errorf("reason = %q; internal error detail must not leak", decision.Reason)
	}
}

func TestModerate_JudgeFailureFailOpen(t *testing.T) {
	judge := &fakeJudge{err: errors.New("upstream 503")}
	config := DefaultModerationConfig()
	config.FailOpen = true
	uc, _ := newTestModeration(t, judge, config)

	decision, err := uc.Moderate(context.Background(), "a cute cat by the window")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if !decision.IsSafe {
		t.Errorf("fail-open gate denied: %+v", decision)
	}
}
