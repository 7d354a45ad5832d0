package biz

import (
	"context"
	"errors"
	"time"

	"demoengine/internal/pkg/goenhance"
	"demoengine/internal/pkg/prompt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// ErrPromptDenied reports a prompt stopped by the moderation gate. The
// decision carries the user-facing reason.
var ErrPromptDenied = errors.New("prompt denied by moderation")

// ImageGenerator turns a text prompt into an image.
type ImageGenerator interface {
	GenerateImageAndWait(ctx context.Context, prompt string) (string, error)
}

// VideoAnimator turns a still image plus a motion prompt into a short clip.
type VideoAnimator interface {
	GenerateAndWait(ctx context.Context, imageURL, prompt string, lengthSeconds int) (string, error)
}

// VideoEnhancer restyles an existing clip.
type VideoEnhancer interface {
	EnhanceVideoAndWait(ctx context.Context, videoURL, styleSlug, prompt string) (string, error)
}

// StepStatus is the state of one pipeline step.
type StepStatus string

const (
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
	StepSkipped    StepStatus = "skipped"
)

// PipelineStep records the outcome of one generation stage.
type PipelineStep struct {
	Name     string
	Status   StepStatus
	Error    string
	Duration time.Duration
}

// PipelineResult is the outcome of a demo request: a denied decision, a
// reused corpus match or a freshly generated demo.
type PipelineResult struct {
	Decision *ModerationDecision
	Analysis *prompt.Analysis
	Demo     *Demo
	Matched  bool
	Score    float64
	Steps    []PipelineStep
}

// PipelineUsecase drives the full request flow: moderation gate, analysis,
// corpus match and, on a miss, the external generation vendors.
type PipelineUsecase struct {
	moderation  *ModerationUsecase
	analysis    *AnalysisUsecase
	demos       *DemoUsecase
	images      ImageGenerator
	animator    VideoAnimator
	enhancer    VideoEnhancer
	clipSeconds int
	log         *log.Helper
}

// NewPipelineUsecase new a Pipeline usecase.
func NewPipelineUsecase(
	moderation *ModerationUsecase,
	analysis *AnalysisUsecase,
	demos *DemoUsecase,
	images ImageGenerator,
	animator VideoAnimator,
	enhancer VideoEnhancer,
	logger log.Logger,
) *PipelineUsecase {
	return &PipelineUsecase{
		moderation:  moderation,
		analysis:    analysis,
		demos:       demos,
		images:      images,
		animator:    animator,
		enhancer:    enhancer,
		clipSeconds: 5,
		log:         log.NewHelper(logger),
	}
}

// gatekeep runs moderation and analysis, the shared front half of every
// generation flow.
func (uc *PipelineUsecase) gatekeep(ctx context.Context, text, preferredStyle string) (*PipelineResult, error) {
	decision, err := uc.moderation.Moderate(ctx, text)
	if err != nil {
		return nil, err
	}
	result := &PipelineResult{Decision: decision}
	if !decision.IsSafe {
		return result, ErrPromptDenied
	}

	analysis, err := uc.analysis.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	if preferredStyle != "" {
		analysis.Style = preferredStyle
	}
	if analysis.Style == "" {
		analysis.Style = goenhance.DefaultStyle
	}
	result.Analysis = analysis
	return result, nil
}

// GetOrCreateDemo moderates the prompt, looks for an existing demo and, on a
// miss, generates a new image demo. A denied prompt returns ErrPromptDenied
// with the decision attached to the result.
func (uc *PipelineUsecase) GetOrCreateDemo(ctx context.Context, text, preferredStyle string) (*PipelineResult, error) {
	result, err := uc.gatekeep(ctx, text, preferredStyle)
	if err != nil {
		return result, err
	}

	match, err := uc.demos.FindBestMatch(ctx, result.Analysis)
	if err != nil {
		return result, err
	}
	if match.Found {
		result.Demo = match.Demo
		result.Matched = true
		result.Score = match.Score
		return result, nil
	}

	imageURL, step := uc.runStep(ctx, "generate_image", func(ctx context.Context) (string, error) {
		return uc.images.GenerateImageAndWait(ctx, text)
	})
	result.Steps = append(result.Steps, step)
	if step.Status == StepFailed {
		return result, errors.New(step.Error)
	}

	demo, err := uc.demos.CreateDemo(ctx, uc.newDemo(result.Analysis, imageURL, "", ""))
	if err != nil {
		return result, err
	}
	result.Demo = demo
	return result, nil
}

// GenerateImage moderates the prompt and produces a single image without
// touching the corpus.
func (uc *PipelineUsecase) GenerateImage(ctx context.Context, text string) (*PipelineResult, error) {
	result, err := uc.gatekeep(ctx, text, "")
	if err != nil {
		return result, err
	}

	imageURL, step := uc.runStep(ctx, "generate_image", func(ctx context.Context) (string, error) {
		return uc.images.GenerateImageAndWait(ctx, text)
	})
	result.Steps = append(result.Steps, step)
	if step.Status == StepFailed {
		return result, errors.New(step.Error)
	}

	result.Demo = &Demo{ImageURLBefore: imageURL}
	return result, nil
}

// GenerateRealtime runs the full three-stage pipeline: text to image, image
// to video, video style enhancement. Each stage is reported as a step so the
// request layer can surface progress.
func (uc *PipelineUsecase) GenerateRealtime(ctx context.Context, text, preferredStyle string) (*PipelineResult, error) {
	result, err := uc.gatekeep(ctx, text, preferredStyle)
	if err != nil {
		return result, err
	}

	imageURL, step := uc.runStep(ctx, "generate_image", func(ctx context.Context) (string, error) {
		return uc.images.GenerateImageAndWait(ctx, text)
	})
	result.Steps = append(result.Steps, step)
	if step.Status == StepFailed {
		return result, errors.New(step.Error)
	}

	rawVideoURL, step := uc.runStep(ctx, "animate_image", func(ctx context.Context) (string, error) {
		return uc.animator.GenerateAndWait(ctx, imageURL, text, uc.clipSeconds)
	})
	result.Steps = append(result.Steps, step)
	if step.Status == StepFailed {
		return result, errors.New(step.Error)
	}

	styledVideoURL, step := uc.runStep(ctx, "enhance_video", func(ctx context.Context) (string, error) {
		return uc.enhancer.EnhanceVideoAndWait(ctx, rawVideoURL, result.Analysis.Style, text)
	})
	result.Steps = append(result.Steps, step)
	if step.Status == StepFailed {
		// The raw clip is still a usable demo; keep it and record the
		// failed enhancement.
		styledVideoURL = ""
	}

	demo, err := uc.demos.CreateDemo(ctx, uc.newDemo(result.Analysis, imageURL, rawVideoURL, styledVideoURL))
	if err != nil {
		return result, err
	}
	result.Demo = demo
	return result, nil
}

func (uc *PipelineUsecase) newDemo(analysis *prompt.Analysis, imageURL, rawVideoURL, styledVideoURL string) *Demo {
	styleName := analysis.Style
	if s, ok := goenhance.Styles[analysis.Style]; ok {
		styleName = s.Name
	}
	videoURL := styledVideoURL
	if videoURL == "" {
		videoURL = rawVideoURL
	}
	return &Demo{
		ID:               uuid.NewString(),
		PromptOriginal:   analysis.Original,
		PromptNormalized: analysis.Normalized,
		PromptLanguage:   string(analysis.Language),
		Keywords:         analysis.Keywords,
		ImageURLBefore:   imageURL,
		VideoURL:         videoURL,
		StyleName:        styleName,
		StyleSlug:        analysis.Style,
		CategorySlug:     analysis.Category,
	}
}

func (uc *PipelineUsecase) runStep(ctx context.Context, name string, fn func(context.Context) (string, error)) (string, PipelineStep) {
	step := PipelineStep{Name: name, Status: StepInProgress}
	start := time.Now()
	out, err := fn(ctx)
	step.Duration = time.Since(start)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("pipeline step %s failed: %v", name, err)
		step.Status = StepFailed
		step.Error = err.Error()
		return "", step
	}
	step.Status = StepCompleted
	return out, step
}
