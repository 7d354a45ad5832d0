package biz

import (
	"context"
	"time"

	"demoengine/internal/pkg/llm"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/looplab/fsm"
)

// Decision sources.
const (
	DecisionSourceCache    = "cache"
	DecisionSourceExternal = "external"
)

// ReasonModerationUnavailable is the only reason ever surfaced for an
// external-judge failure; internal detail stays in the logs.
const ReasonModerationUnavailable = "moderation_unavailable"

// ModerationDecision is the final allow/deny verdict for one prompt.
type ModerationDecision struct {
	IsSafe     bool
	Reason     string
	Suggestion string
	Categories []string
	Source     string
	Confidence float64 // only set when Source is "external"
}

// ModerationJudge is the external LLM-backed judgment collaborator.
type ModerationJudge interface {
	Judge(ctx context.Context, text string) (*llm.Judgment, error)
}

// ModerationConfig tunes the gate.
type ModerationConfig struct {
	// FailOpen allows prompts through when the external judge is
	// unavailable. Off by default: ungated content is worse than a denied
	// request.
	FailOpen bool
	// ExternalTimeout is the hard deadline on the external judge call.
	ExternalTimeout time.Duration
}

// DefaultModerationConfig returns the fail-closed default configuration.
func DefaultModerationConfig() ModerationConfig {
	return ModerationConfig{
		FailOpen:        false,
		ExternalTimeout: 10 * time.Second,
	}
}

// Gate states and events.
const (
	statePending         = "pending"
	stateCacheChecked    = "cache_checked"
	stateExternalPending = "external_pending"
	stateAllowed         = "allowed"
	stateDenied          = "denied"

	evCheckCache      = "check_cache"
	evDenyCached      = "deny_cached"
	evRequestExternal = "request_external"
	evAllow           = "allow"
	evDenyExternal    = "deny_external"
)

func newGate() *fsm.FSM {
	return fsm.NewFSM(
		statePending,
		fsm.Events{
			{Name: evCheckCache, Src: []string{statePending}, Dst: stateCacheChecked},
			{Name: evDenyCached, Src: []string{stateCacheChecked}, Dst: stateDenied},
			{Name: evRequestExternal, Src: []string{stateCacheChecked}, Dst: stateExternalPending},
			{Name: evAllow, Src: []string{stateCacheChecked, stateExternalPending}, Dst: stateAllowed},
			{Name: evDenyExternal, Src: []string{stateExternalPending}, Dst: stateDenied},
		},
		fsm.Callbacks{},
	)
}

// ModerationUsecase composes the block cache with the external judge. It is
// the mandatory entry gate before any generation work.
type ModerationUsecase struct {
	cache  *BlockCacheUsecase
	judge  ModerationJudge
	config ModerationConfig
	log    *log.Helper
}

// NewModerationUsecase new a Moderation usecase.
func NewModerationUsecase(cache *BlockCacheUsecase, judge ModerationJudge, config ModerationConfig, logger log.Logger) *ModerationUsecase {
	return &ModerationUsecase{
		cache:  cache,
		judge:  judge,
		config: config,
		log:    log.NewHelper(logger),
	}
}

// Moderate drives one prompt through the gate. A cached hit denies without
// any external call; a clear cache defers to the judge, and an unsafe verdict
// is learned back into the cache so the next identical prompt stays on the
// fast path.
func (uc *ModerationUsecase) Moderate(ctx context.Context, text string) (*ModerationDecision, error) {
	gate := newGate()

	uc.transition(ctx, gate, evCheckCache)
	cached, err := uc.cache.Check(ctx, text)
	if err != nil {
		// The fast path degrades to the external judge on a cache outage.
		uc.log.WithContext(ctx).Warnf("block cache check failed: %v", err)
		cached = &BlockCheckResult{IsBlocked: false}
	}

	if cached.IsBlocked {
		uc.transition(ctx, gate, evDenyCached)
		return &ModerationDecision{
			IsSafe:     false,
			Reason:     cached.Reason,
			Suggestion: "try rephrasing your prompt",
			Source:     DecisionSourceCache,
		}, nil
	}

	uc.transition(ctx, gate, evRequestExternal)

	jctx, cancel := context.WithTimeout(ctx, uc.config.ExternalTimeout)
	defer cancel()
	judgment, err := uc.judge.Judge(jctx, text)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("external moderation failed: %v", err)
		if uc.config.FailOpen {
			uc.transition(ctx, gate, evAllow)
			return &ModerationDecision{IsSafe: true, Source: DecisionSourceExternal}, nil
		}
		uc.transition(ctx, gate, evDenyExternal)
		return &ModerationDecision{
			IsSafe:     false,
			Reason:     ReasonModerationUnavailable,
			Suggestion: "please try again later",
			Source:     DecisionSourceExternal,
		}, nil
	}

	if judgment.IsSafe {
		uc.transition(ctx, gate, evAllow)
		return &ModerationDecision{
			IsSafe:     true,
			Source:     DecisionSourceExternal,
			Confidence: judgment.Confidence,
		}, nil
	}

	uc.transition(ctx, gate, evDenyExternal)
	uc.learn(ctx, judgment)
	return &ModerationDecision{
		IsSafe:     false,
		Reason:     judgment.Reason,
		Suggestion: "try rephrasing your prompt",
		Categories: judgment.Categories,
		Source:     DecisionSourceExternal,
		Confidence: judgment.Confidence,
	}, nil
}

// learn promotes the judge's blocked terms into the cache. Write failures are
// logged and swallowed: the deny decision already stands, the term just keeps
// falling through to the judge until a later write succeeds. Learning runs on
// a context detached from the caller so an abandoned request still teaches
// the cache.
func (uc *ModerationUsecase) learn(ctx context.Context, judgment *llm.Judgment) {
	lctx := context.WithoutCancel(ctx)
	for _, term := range judgment.BlockedTerms {
		if err := uc.cache.AddBlockedWord(lctx, term, judgment.Reason, SourceGemini); err != nil {
			uc.log.WithContext(ctx).Warnf("learning blocked term %q failed: %v", term, err)
		}
	}
}

func (uc *ModerationUsecase) transition(ctx context.Context, gate *fsm.FSM, event string) {
	if err := gate.Event(ctx, event); err != nil {
		uc.log.WithContext(ctx).Errorf("gate transition %s from %s failed: %v", event, gate.Current(), err)
	}
}
