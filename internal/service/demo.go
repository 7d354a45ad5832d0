package service

import (
	"context"
	"errors"
	"sort"

	"demoengine/internal/biz"
	"demoengine/internal/pkg/goenhance"
	"demoengine/internal/pkg/prompt"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// DemoService is the public demo API facade.
type DemoService struct {
	pipeline   *biz.PipelineUsecase
	demos      *biz.DemoUsecase
	analysis   *biz.AnalysisUsecase
	moderation *biz.ModerationUsecase
	log        *log.Helper
}

// NewDemoService creates a new DemoService.
func NewDemoService(
	pipeline *biz.PipelineUsecase,
	demos *biz.DemoUsecase,
	analysis *biz.AnalysisUsecase,
	moderation *biz.ModerationUsecase,
	logger log.Logger,
) *DemoService {
	return &DemoService{
		pipeline:   pipeline,
		demos:      demos,
		analysis:   analysis,
		moderation: moderation,
		log:        log.NewHelper(logger),
	}
}

// PromptRequest carries a single prompt.
type PromptRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
}

// DemoReply is the wire shape of a demo record.
type DemoReply struct {
	ID             string   `json:"id"`
	Prompt         string   `json:"prompt"`
	Language       string   `json:"language"`
	Keywords       []string `json:"keywords"`
	ImageURLBefore string   `json:"image_url_before,omitempty"`
	ImageURLAfter  string   `json:"image_url_after,omitempty"`
	VideoURL       string   `json:"video_url,omitempty"`
	ThumbnailURL   string   `json:"thumbnail_url,omitempty"`
	StyleName      string   `json:"style_name"`
	StyleSlug      string   `json:"style_slug"`
	CategorySlug   string   `json:"category_slug,omitempty"`
}

// ModerationReply is the wire shape of a moderation decision.
type ModerationReply struct {
	IsSafe     bool     `json:"is_safe"`
	Reason     string   `json:"reason,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Source     string   `json:"source"`
	Confidence float64  `json:"confidence,omitempty"`
}

// StepReply reports one pipeline stage.
type StepReply struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// SearchReply is the outcome of a search or generation request.
type SearchReply struct {
	Blocked    bool             `json:"blocked"`
	Moderation *ModerationReply `json:"moderation,omitempty"`
	Matched    bool             `json:"matched"`
	Score      float64          `json:"score,omitempty"`
	Demo       *DemoReply       `json:"demo,omitempty"`
	Steps      []StepReply      `json:"steps,omitempty"`
}

// AnalysisReply is the wire shape of a prompt analysis.
type AnalysisReply struct {
	Original   string   `json:"original"`
	Normalized string   `json:"normalized"`
	Language   string   `json:"language"`
	Keywords   []string `json:"keywords"`
	Category   string   `json:"category,omitempty"`
	Style      string   `json:"style,omitempty"`
	Confidence float64  `json:"confidence"`
}

func toDemoReply(d *biz.Demo) *DemoReply {
	if d == nil {
		return nil
	}
	return &DemoReply{
		ID:             d.ID,
		Prompt:         d.PromptOriginal,
		Language:       d.PromptLanguage,
		Keywords:       d.Keywords,
		ImageURLBefore: d.ImageURLBefore,
		ImageURLAfter:  d.ImageURLAfter,
		VideoURL:       d.VideoURL,
		ThumbnailURL:   d.ThumbnailURL,
		StyleName:      d.StyleName,
		StyleSlug:      d.StyleSlug,
		CategorySlug:   d.CategorySlug,
	}
}

func toModerationReply(d *biz.ModerationDecision) *ModerationReply {
	if d == nil {
		return nil
	}
	return &ModerationReply{
		IsSafe:     d.IsSafe,
		Reason:     d.Reason,
		Suggestion: d.Suggestion,
		Categories: d.Categories,
		Source:     d.Source,
		Confidence: d.Confidence,
	}
}

func toSearchReply(res *biz.PipelineResult) *SearchReply {
	reply := &SearchReply{
		Moderation: toModerationReply(res.Decision),
		Matched:    res.Matched,
		Score:      res.Score,
		Demo:       toDemoReply(res.Demo),
	}
	if res.Decision != nil && !res.Decision.IsSafe {
		reply.Blocked = true
	}
	for _, s := range res.Steps {
		reply.Steps = append(reply.Steps, StepReply{
			Name:       s.Name,
			Status:     string(s.Status),
			Error:      s.Error,
			DurationMs: s.Duration.Milliseconds(),
		})
	}
	return reply
}

func validatePrompt(text string) error {
	if err := biz.ValidatePrompt(text); err != nil {
		return kerrors.BadRequest("INVALID_PROMPT", err.Error())
	}
	return nil
}

// Search finds or generates a demo for a prompt.
func (s *DemoService) Search(ctx context.Context, req *PromptRequest) (*SearchReply, error) {
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	res, err := s.pipeline.GetOrCreateDemo(ctx, req.Prompt, req.Style)
	if errors.Is(err, biz.ErrPromptDenied) {
		return toSearchReply(res), nil
	}
	if err != nil {
		return nil, s.toServiceError(err)
	}
	return toSearchReply(res), nil
}

// GenerateImage produces a single image for a prompt.
func (s *DemoService) GenerateImage(ctx context.Context, req *PromptRequest) (*SearchReply, error) {
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	res, err := s.pipeline.GenerateImage(ctx, req.Prompt)
	if errors.Is(err, biz.ErrPromptDenied) {
		return toSearchReply(res), nil
	}
	if err != nil {
		return nil, s.toServiceError(err)
	}
	return toSearchReply(res), nil
}

// GenerateRealtime runs the full image-to-styled-video pipeline.
func (s *DemoService) GenerateRealtime(ctx context.Context, req *PromptRequest) (*SearchReply, error) {
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	res, err := s.pipeline.GenerateRealtime(ctx, req.Prompt, req.Style)
	if errors.Is(err, biz.ErrPromptDenied) {
		return toSearchReply(res), nil
	}
	if err != nil {
		return nil, s.toServiceError(err)
	}
	return toSearchReply(res), nil
}

// Analyze normalizes and classifies a prompt without generation.
func (s *DemoService) Analyze(ctx context.Context, req *PromptRequest) (*AnalysisReply, error) {
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	a, err := s.analysis.Analyze(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}
	return &AnalysisReply{
		Original:   a.Original,
		Normalized: a.Normalized,
		Language:   string(a.Language),
		Keywords:   a.Keywords,
		Category:   a.Category,
		Style:      a.Style,
		Confidence: a.Confidence,
	}, nil
}

// Moderate runs the gate without any generation work.
func (s *DemoService) Moderate(ctx context.Context, req *PromptRequest) (*ModerationReply, error) {
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	decision, err := s.moderation.Moderate(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}
	return toModerationReply(decision), nil
}

// GetDemo fetches one demo by id.
func (s *DemoService) GetDemo(ctx context.Context, id string) (*DemoReply, error) {
	d, err := s.demos.GetDemo(ctx, id)
	if errors.Is(err, biz.ErrDemoNotFound) {
		return nil, kerrors.NotFound("DEMO_NOT_FOUND", "demo not found")
	}
	if err != nil {
		return nil, err
	}
	return toDemoReply(d), nil
}

// RandomDemo returns a random active demo, optionally restricted to a
// category.
func (s *DemoService) RandomDemo(ctx context.Context, category string) (*DemoReply, error) {
	d, err := s.demos.RandomDemo(ctx, category)
	if errors.Is(err, biz.ErrDemoNotFound) {
		return nil, kerrors.NotFound("DEMO_NOT_FOUND", "no active demos")
	}
	if err != nil {
		return nil, err
	}
	return toDemoReply(d), nil
}

// StyleReply describes one available style.
type StyleReply struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ListStyles returns the available style presets.
func (s *DemoService) ListStyles(_ context.Context) ([]StyleReply, error) {
	styles := make([]StyleReply, 0, len(goenhance.Styles))
	for slug, st := range goenhance.Styles {
		styles = append(styles, StyleReply{Slug: slug, Name: st.Name})
	}
	sort.Slice(styles, func(i, j int) bool { return styles[i].Slug < styles[j].Slug })
	return styles, nil
}

// CategoryReply describes one content category.
type CategoryReply struct {
	Slug     string   `json:"slug"`
	Style    string   `json:"style"`
	Keywords []string `json:"keywords"`
}

// ListCategories returns the classifier's categories.
func (s *DemoService) ListCategories(_ context.Context) ([]CategoryReply, error) {
	categories := make([]CategoryReply, 0)
	for _, slug := range prompt.Categories() {
		categories = append(categories, CategoryReply{
			Slug:     slug,
			Style:    prompt.StyleForCategory(slug),
			Keywords: prompt.CategoryKeywords(slug),
		})
	}
	return categories, nil
}

// TopicsReply carries the starter prompts for one category.
type TopicsReply struct {
	Category string   `json:"category"`
	Topics   []string `json:"topics"`
}

// ListTopics returns curated starter prompts for a category.
func (s *DemoService) ListTopics(_ context.Context, category string) (*TopicsReply, error) {
	topics := prompt.TopicsForCategory(category)
	if topics == nil {
		return nil, kerrors.NotFound("CATEGORY_NOT_FOUND", "unknown category")
	}
	return &TopicsReply{Category: category, Topics: topics}, nil
}

// ListVideos lists demos with a generated video in a category.
func (s *DemoService) ListVideos(ctx context.Context, category string) ([]*DemoReply, error) {
	demos, err := s.demos.ListVideosByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]*DemoReply, 0, len(demos))
	for _, d := range demos {
		out = append(out, toDemoReply(d))
	}
	return out, nil
}

// CountReply carries a single count.
type CountReply struct {
	Count int64 `json:"count"`
}

// CountVideos counts demos with a generated video in a category.
func (s *DemoService) CountVideos(ctx context.Context, category string) (*CountReply, error) {
	n, err := s.demos.CountVideosByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return &CountReply{Count: n}, nil
}

func (s *DemoService) toServiceError(err error) error {
	if errors.Is(err, biz.ErrCorpusUnavailable) {
		return kerrors.ServiceUnavailable("CORPUS_UNAVAILABLE", "demo corpus temporarily unavailable")
	}
	return kerrors.InternalServer("GENERATION_FAILED", "demo generation failed")
}
