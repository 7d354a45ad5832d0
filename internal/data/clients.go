package data

import (
	"time"

	"demoengine/internal/biz"
	"demoengine/internal/conf"
	"demoengine/internal/pkg/goenhance"
	"demoengine/internal/pkg/llm"
	"demoengine/internal/pkg/match"
	"demoengine/internal/pkg/pollo"
)

// NewMatcher builds the corpus matcher from configuration. Zero-valued
// weights fall back to the engine defaults.
func NewMatcher(c *conf.Matching) match.Matcher {
	cfg := match.DefaultConfig()
	if c != nil {
		if c.KeywordWeight > 0 {
			cfg.KeywordWeight = c.KeywordWeight
		}
		if c.TextWeight > 0 {
			cfg.TextWeight = c.TextWeight
		}
		if c.StyleBonus > 0 {
			cfg.StyleBonus = c.StyleBonus
		}
		if c.MinScore > 0 {
			cfg.MinScore = c.MinScore
		}
	}
	return match.NewLinearScanner(cfg)
}

// NewModerationConfig builds the gate policy from configuration.
func NewModerationConfig(c *conf.Moderation) biz.ModerationConfig {
	cfg := biz.DefaultModerationConfig()
	if c != nil {
		cfg.FailOpen = c.FailOpen
		if c.ExternalTimeoutSeconds > 0 {
			cfg.ExternalTimeout = time.Duration(c.ExternalTimeoutSeconds) * time.Second
		}
	}
	return cfg
}

// NewGeminiJudge builds the external moderation judge.
func NewGeminiJudge(c *conf.Moderation) biz.ModerationJudge {
	cfg := llm.DefaultGeminiConfig()
	if c != nil && c.Gemini != nil {
		if c.Gemini.BaseURL != "" {
			cfg.BaseURL = c.Gemini.BaseURL
		}
		if c.Gemini.Model != "" {
			cfg.Model = c.Gemini.Model
		}
		cfg.APIKey = c.Gemini.APIKey
		if c.Gemini.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(c.Gemini.TimeoutSeconds) * time.Second
		}
	}
	return llm.NewGeminiClient(cfg)
}

// NewGoenhanceClient builds the GoEnhance vendor client.
func NewGoenhanceClient(c *conf.Vendors) *goenhance.Client {
	cfg := goenhance.DefaultConfig()
	if c != nil && c.Goenhance != nil {
		if c.Goenhance.BaseURL != "" {
			cfg.BaseURL = c.Goenhance.BaseURL
		}
		cfg.APIKey = c.Goenhance.APIKey
		if c.Goenhance.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(c.Goenhance.TimeoutSeconds) * time.Second
		}
		if c.Goenhance.PollIntervalSeconds > 0 {
			cfg.PollInterval = time.Duration(c.Goenhance.PollIntervalSeconds) * time.Second
		}
		if c.Goenhance.PollTimeoutSeconds > 0 {
			cfg.PollTimeout = time.Duration(c.Goenhance.PollTimeoutSeconds) * time.Second
		}
	}
	return goenhance.NewClient(cfg)
}

// NewPolloClient builds the Pollo vendor client.
func NewPolloClient(c *conf.Vendors) *pollo.Client {
	cfg := pollo.DefaultConfig()
	if c != nil && c.Pollo != nil {
		if c.Pollo.BaseURL != "" {
			cfg.BaseURL = c.Pollo.BaseURL
		}
		cfg.APIKey = c.Pollo.APIKey
		if c.Pollo.Model != "" {
			cfg.Model = c.Pollo.Model
		}
		if c.Pollo.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(c.Pollo.TimeoutSeconds) * time.Second
		}
		if c.Pollo.PollIntervalSeconds > 0 {
			cfg.PollInterval = time.Duration(c.Pollo.PollIntervalSeconds) * time.Second
		}
		if c.Pollo.PollTimeoutSeconds > 0 {
			cfg.PollTimeout = time.Duration(c.Pollo.PollTimeoutSeconds) * time.Second
		}
	}
	return pollo.NewClient(cfg)
}

// NewImageGenerator adapts the GoEnhance client to the pipeline.
func NewImageGenerator(client *goenhance.Client) biz.ImageGenerator {
	return client
}

// NewVideoEnhancer adapts the GoEnhance client to the pipeline.
func NewVideoEnhancer(client *goenhance.Client) biz.VideoEnhancer {
	return client
}

// NewVideoAnimator adapts the Pollo client to the pipeline.
func NewVideoAnimator(client *pollo.Client) biz.VideoAnimator {
	return client
}
