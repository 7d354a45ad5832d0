package service

import (
	"context"
	"errors"
	"time"

	"demoengine/internal/biz"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// AdminService exposes block-cache and corpus maintenance operations.
type AdminService struct {
	blockCache *biz.BlockCacheUsecase
	demos      *biz.DemoUsecase
	log        *log.Helper
}

// NewAdminService creates a new AdminService.
func NewAdminService(blockCache *biz.BlockCacheUsecase, demos *biz.DemoUsecase, logger log.Logger) *AdminService {
	return &AdminService{
		blockCache: blockCache,
		demos:      demos,
		log:        log.NewHelper(logger),
	}
}

// BlockStatsReply is the wire shape of the block-cache counters.
type BlockStatsReply struct {
	TotalBlockedWords int64 `json:"total_blocked_words"`
	CacheHits         int64 `json:"cache_hits"`
	PromptCacheHits   int64 `json:"prompt_cache_hits"`
	BlockedBySeed     int64 `json:"blocked_by_seed"`
	BlockedByGemini   int64 `json:"blocked_by_gemini"`
	BlockedByManual   int64 `json:"blocked_by_manual"`
}

// BlockCacheStats returns the running counters.
func (s *AdminService) BlockCacheStats(ctx context.Context) (*BlockStatsReply, error) {
	stats, err := s.blockCache.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &BlockStatsReply{
		TotalBlockedWords: stats.TotalBlockedWords,
		CacheHits:         stats.CacheHits,
		PromptCacheHits:   stats.PromptCacheHits,
		BlockedBySeed:     stats.BlockedBySeed,
		BlockedByGemini:   stats.BlockedByGemini,
		BlockedByManual:   stats.BlockedByManual,
	}, nil
}

// BlockCheckReply is the fast-path verdict for one prompt.
type BlockCheckReply struct {
	IsBlocked    bool     `json:"is_blocked"`
	Reason       string   `json:"reason,omitempty"`
	BlockedWords []string `json:"blocked_words,omitempty"`
	Source       string   `json:"source,omitempty"`
}

// CheckPrompt runs the fast-path check only, without the external judge.
func (s *AdminService) CheckPrompt(ctx context.Context, req *PromptRequest) (*BlockCheckReply, error) {
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	res, err := s.blockCache.Check(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}
	return &BlockCheckReply{
		IsBlocked:    res.IsBlocked,
		Reason:       res.Reason,
		BlockedWords: res.BlockedWords,
		Source:       string(res.Source),
	}, nil
}

// BlockWordRequest adds or removes one blocked term.
type BlockWordRequest struct {
	Word   string `json:"word"`
	Reason string `json:"reason,omitempty"`
}

// StatusReply reports a simple success flag.
type StatusReply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AddBlockedWord inserts a manual blocklist entry.
func (s *AdminService) AddBlockedWord(ctx context.Context, req *BlockWordRequest) (*StatusReply, error) {
	err := s.blockCache.AddBlockedWord(ctx, req.Word, req.Reason, biz.SourceManual)
	if errors.Is(err, biz.ErrInvalidTerm) {
		return nil, kerrors.BadRequest("INVALID_TERM", err.Error())
	}
	if err != nil {
		return nil, err
	}
	return &StatusReply{Success: true, Message: "word added"}, nil
}

// RemoveBlockedWord removes one blocklist entry.
func (s *AdminService) RemoveBlockedWord(ctx context.Context, req *BlockWordRequest) (*StatusReply, error) {
	found, err := s.blockCache.RemoveBlockedWord(ctx, req.Word)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, kerrors.NotFound("TERM_NOT_FOUND", "word not in blocklist")
	}
	return &StatusReply{Success: true, Message: "word removed"}, nil
}

// BlockedWordReply is the wire shape of one blocklist entry.
type BlockedWordReply struct {
	Term     string `json:"term"`
	Reason   string `json:"reason,omitempty"`
	Source   string `json:"source"`
	HitCount int64  `json:"hit_count"`
}

// ListBlockedWords returns every blocklist entry.
func (s *AdminService) ListBlockedWords(ctx context.Context) ([]BlockedWordReply, error) {
	entries, err := s.blockCache.ListBlockedWords(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BlockedWordReply, 0, len(entries))
	for _, e := range entries {
		out = append(out, BlockedWordReply{
			Term:     e.Term,
			Reason:   e.Reason,
			Source:   string(e.Source),
			HitCount: e.HitCount,
		})
	}
	return out, nil
}

// ClearReply reports how many entries a clear removed.
type ClearReply struct {
	Removed int64 `json:"removed"`
}

// ClearBlockCache drops the whole blocklist and its counters.
func (s *AdminService) ClearBlockCache(ctx context.Context) (*ClearReply, error) {
	removed, err := s.blockCache.Clear(ctx)
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Infof("block cache cleared by admin, %d entries removed", removed)
	return &ClearReply{Removed: removed}, nil
}

// ReseedBlockCache reloads the built-in blocked list. Safe to repeat.
func (s *AdminService) ReseedBlockCache(ctx context.Context) (*StatusReply, error) {
	if err := s.blockCache.Warmup(ctx); err != nil {
		return nil, err
	}
	return &StatusReply{Success: true, Message: "block cache reseeded"}, nil
}

// CleanupRequest bounds the demo cleanup.
type CleanupRequest struct {
	RetentionHours int `json:"retention_hours"`
}

// CleanupReply reports how many demos were deactivated.
type CleanupReply struct {
	Deactivated int64 `json:"deactivated"`
}

// CleanupDemos soft-deletes demos older than the retention window.
func (s *AdminService) CleanupDemos(ctx context.Context, req *CleanupRequest) (*CleanupReply, error) {
	retention := time.Duration(req.RetentionHours) * time.Hour
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	n, err := s.demos.CleanupExpired(ctx, retention)
	if err != nil {
		return nil, err
	}
	return &CleanupReply{Deactivated: n}, nil
}
