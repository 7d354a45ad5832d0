package biz

import (
	"context"
	"fmt"
	"unicode/utf8"

	"demoengine/internal/pkg/prompt"

	"github.com/go-kratos/kratos/v2/log"
)

// Prompt length bounds enforced at the request boundary.
const (
	MinPromptLength = 2
	MaxPromptLength = 500
)

// ErrInvalidPrompt reports a prompt outside the accepted length bounds.
type ErrInvalidPrompt struct {
	Length int
}

func (e *ErrInvalidPrompt) Error() string {
	return fmt.Sprintf("prompt length %d outside [%d,%d]", e.Length, MinPromptLength, MaxPromptLength)
}

// ValidatePrompt checks the length bounds. Analysis and moderation assume
// prompts already passed this check.
func ValidatePrompt(text string) error {
	if n := utf8.RuneCountInString(text); n < MinPromptLength || n > MaxPromptLength {
		return &ErrInvalidPrompt{Length: n}
	}
	return nil
}

// AnalysisUsecase normalizes and classifies prompts.
type AnalysisUsecase struct {
	log *log.Helper
}

// NewAnalysisUsecase new an Analysis usecase.
func NewAnalysisUsecase(logger log.Logger) *AnalysisUsecase {
	return &AnalysisUsecase{log: log.NewHelper(logger)}
}

// Analyze produces the per-request prompt analysis. The result is ephemeral
// and never persisted as-is.
func (uc *AnalysisUsecase) Analyze(ctx context.Context, text string) (*prompt.Analysis, error) {
	analysis := prompt.Analyze(text)
	uc.log.WithContext(ctx).Debugf("analyzed prompt: lang=%s category=%s keywords=%d",
		analysis.Language, analysis.Category, len(analysis.Keywords))
	return analysis, nil
}
