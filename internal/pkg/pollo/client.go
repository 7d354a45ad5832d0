// Package pollo wraps the Pollo AI image-to-video API. A single image plus a
// motion prompt is animated into a short clip by one of several backing
// models.
package pollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Model describes one backing video model.
type Model struct {
	Endpoint     string
	ValidLengths []int // seconds
}

// Models maps model slugs to their generation endpoints.
var Models = map[string]Model{
	"pixverse_v4.5": {Endpoint: "/generation/pixverse/pixverse-v4-5/image-to-video", ValidLengths: []int{5, 8}},
	"kling_v1.6":    {Endpoint: "/generation/kling-ai/kling-v1-6/image-to-video", ValidLengths: []int{5, 10}},
	"hailuo":        {Endpoint: "/generation/minimax/hailuo/image-to-video", ValidLengths: []int{6}},
	"vidu_v2":       {Endpoint: "/generation/vidu-ai/vidu-v2/image-to-video", ValidLengths: []int{4, 8}},
}

// DefaultModel is used when no model is configured.
const DefaultModel = "pixverse_v4.5"

// Config contains configuration for the Pollo client.
type Config struct {
	BaseURL      string // e.g. "https://pollo.ai/api/platform"
	APIKey       string
	Model        string
	Timeout      time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// DefaultConfig returns default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://pollo.ai/api/platform",
		Model:        DefaultModel,
		Timeout:      30 * time.Second,
		PollInterval: 5 * time.Second,
		PollTimeout:  10 * time.Minute,
	}
}

// Client calls the Pollo AI API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Pollo client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type generateRequest struct {
	Input generateInput `json:"input"`
}

type generateInput struct {
	Image          string `json:"image"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
	Length         int    `json:"length"`
}

type generateResponse struct {
	TaskID  string `json:"taskId"`
	Message string `json:"message"`
	Data    struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

type statusResponse struct {
	Data struct {
		Generations []struct {
			Status string `json:"status"` // "pending", "processing", "succeed", "failed"
			URL    string `json:"url"`
			Error  string `json:"failMsg"`
		} `json:"generations"`
	} `json:"data"`
}

// nearestLength clamps the requested clip length to one the model supports.
func nearestLength(m Model, want int) int {
	best := m.ValidLengths[0]
	for _, l := range m.ValidLengths {
		if abs(l-want) < abs(best-want) {
			best = l
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Generate submits an image-to-video job and returns the vendor task id. The
// clip length is clamped to the nearest value the configured model supports.
func (c *Client) Generate(ctx context.Context, imageURL, prompt string, lengthSeconds int) (string, error) {
	model, ok := Models[c.config.Model]
	if !ok {
		return "", fmt.Errorf("unknown model %q", c.config.Model)
	}

	reqBody := generateRequest{
		Input: generateInput{
			Image:          imageURL,
			Prompt:         prompt,
			NegativePrompt: "blurry, distorted, low quality",
			Length:         nearestLength(model, lengthSeconds),
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	url := strings.TrimSuffix(c.config.BaseURL, "/") + model.Endpoint

	var taskID string
	err = retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.config.APIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to call pollo API: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("pollo API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return retry.Unrecoverable(fmt.Errorf("pollo rejected request (status %d): %s", resp.StatusCode, truncate(string(body), 200)))
		}

		var genResp generateResponse
		if err := json.Unmarshal(body, &genResp); err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to parse response: %w", err))
		}
		taskID = genResp.TaskID
		if taskID == "" {
			taskID = genResp.Data.TaskID
		}
		if taskID == "" {
			return retry.Unrecoverable(fmt.Errorf("pollo returned no task id: %s", genResp.Message))
		}
		return nil
	}, retry.Context(ctx), retry.Attempts(3), retry.Delay(time.Second), retry.LastErrorOnly(true))
	if err != nil {
		return "", err
	}
	return taskID, nil
}

// Status returns the current status and, when succeeded, the video URL.
func (c *Client) Status(ctx context.Context, taskID string) (status, videoURL string, err error) {
	url := fmt.Sprintf("%s/generation/%s/status", strings.TrimSuffix(c.config.BaseURL, "/"), taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch task status: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("pollo API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var st statusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		return "", "", fmt.Errorf("failed to parse status: %w", err)
	}
	if len(st.Data.Generations) == 0 {
		return "", "", fmt.Errorf("pollo returned no generations for task %s", taskID)
	}

	gen := st.Data.Generations[0]
	if gen.Status == "failed" {
		return gen.Status, "", fmt.Errorf("pollo task %s failed: %s", taskID, gen.Error)
	}
	return gen.Status, gen.URL, nil
}

// GenerateAndWait submits an image-to-video job and polls until it succeeds,
// fails or the poll deadline expires.
func (c *Client) GenerateAndWait(ctx context.Context, imageURL, prompt string, lengthSeconds int) (string, error) {
	taskID, err := c.Generate(ctx, imageURL, prompt, lengthSeconds)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.PollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		status, videoURL, err := c.Status(ctx, taskID)
		if err != nil {
			return "", err
		}
		if status == "succeed" {
			return videoURL, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("pollo task %s timed out: %w", taskID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
