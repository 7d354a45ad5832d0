// Package llm provides the external moderation judge client. The service
// treats the judge as opaque: it sends prompt text and consumes a typed
// verdict; transport errors and malformed responses surface as errors so the
// moderation gate can apply its fail-closed policy.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Judgment is the typed verdict returned by the moderation judge.
type Judgment struct {
	IsSafe       bool     `json:"is_safe"`
	Reason       string   `json:"reason"`
	Categories   []string `json:"categories"`
	BlockedTerms []string `json:"blocked_terms"`
	Confidence   float64  `json:"confidence"`
}

// GeminiConfig contains configuration for the Gemini moderation client.
type GeminiConfig struct {
	BaseURL string // e.g. "https://generativelanguage.googleapis.com"
	Model   string // e.g. "gemini-2.0-flash"
	APIKey  string
	Timeout time.Duration
}

// DefaultGeminiConfig returns default configuration.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		BaseURL: "https://generativelanguage.googleapis.com",
		Model:   "gemini-2.0-flash",
		Timeout: 15 * time.Second,
	}
}

// GeminiClient judges prompt safety via the Gemini generateContent API.
type GeminiClient struct {
	config     GeminiConfig
	httpClient *http.Client
}

// NewGeminiClient creates a new Gemini moderation client.
func NewGeminiClient(config GeminiConfig) *GeminiClient {
	return &GeminiClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const judgePromptTemplate = `You are a content safety classifier for an AI image/video generation product. Analyze the following user prompt.

Violation categories: sexual, violence, hate, self-harm, illegal, weapons, drugs, privacy.

User prompt: %q

Respond with ONLY a JSON object, no prose:
{"is_safe": true|false, "reason": "<short explanation, empty when safe>", "categories": ["<violated categories>"], "blocked_terms": ["<the specific offending words or short phrases from the prompt>"], "confidence": <0.0-1.0>}`

// Judge classifies text and returns the typed verdict. Any transport failure,
// API error or unparsable response is returned as an error; the caller decides
// whether to fail open or closed.
func (c *GeminiClient) Judge(ctx context.Context, text string) (*Judgment, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: fmt.Sprintf(judgePromptTemplate, text)}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.0,
			MaxOutputTokens: 256,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimSuffix(c.config.BaseURL, "/"), c.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if geminiResp.Error != nil {
		return nil, fmt.Errorf("gemini error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	return parseJudgment(geminiResp.Candidates[0].Content.Parts[0].Text)
}

// parseJudgment extracts the JSON verdict from the model output, tolerating
// markdown code fences around it.
func parseJudgment(text string) (*Judgment, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var judgment Judgment
	if err := json.Unmarshal([]byte(cleaned), &judgment); err != nil {
		return nil, fmt.Errorf("malformed judgment %q: %w", truncate(cleaned, 120), err)
	}
	return &judgment, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
