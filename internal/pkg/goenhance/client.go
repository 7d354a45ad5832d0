// Package goenhance wraps the GoEnhance AI generation API: text-to-image via
// the nano-banana model and video-to-video style transfer.
package goenhance

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

// Style describes one style-transfer preset.
type Style struct {
	ID   int
	Name string
}

// Styles maps style slugs to vendor presets. Slugs are the public identifiers
// used across the corpus and the API surface.
var Styles = map[string]Style{
	"cute_anime":   {ID: 10306, Name: "Cute Anime"},
	"anime_v5":     {ID: 10305, Name: "Anime V5"},
	"pixar":        {ID: 10307, Name: "Pixar 3D"},
	"clay":         {ID: 10308, Name: "Clay"},
	"oil_painting": {ID: 10309, Name: "Oil Painting"},
	"watercolor":   {ID: 10310, Name: "Watercolor"},
	"cyberpunk":    {ID: 10311, Name: "Cyberpunk"},
	"realistic":    {ID: 10312, Name: "Realistic"},
	"cinematic":    {ID: 10313, Name: "Cinematic"},
	"comic":        {ID: 10314, Name: "Comic"},
	"sketch":       {ID: 10315, Name: "Sketch"},
	"ghibli":       {ID: 10316, Name: "Ghibli"},
}

// DefaultStyle is used when a request names no style and classification
// produced none.
const DefaultStyle = "cute_anime"

// StyleSlugs returns the known slugs in no particular order.
func StyleSlugs() []string {
	slugs := make([]string, 0, len(Styles))
	for slug := range Styles {
		slugs = append(slugs, slug)
	}
	return slugs
}

// Config contains configuration for the GoEnhance client.
type Config struct {
	BaseURL      string // e.g. "https://api.goenhance.ai"
	APIKey       string
	Timeout      time.Duration // per-request timeout
	PollInterval time.Duration
	PollTimeout  time.Duration // overall deadline for a job
}

// DefaultConfig returns default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://api.goenhance.ai",
		Timeout:      30 * time.Second,
		PollInterval: 3 * time.Second,
		PollTimeout:  5 * time.Minute,
	}
}

// Client calls the GoEnhance API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new GoEnhance client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Job is the state of a submitted generation job.
type Job struct {
	UUID     string
	Status   string // "pending", "processing", "success", "failed"
	ImageURL string
	VideoURL string
	Error    string
}

// Done reports whether the job reached a terminal state.
func (j *Job) Done() bool {
	return j.Status == "success" || j.Status == "failed"
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

type videoRequest struct {
	VideoURL string `json:"video_url"`
	Type     string `json:"type"`
	StyleID  int    `json:"style_id"`
	Prompt   string `json:"prompt,omitempty"`
}

type submitResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		ImgUUID string `json:"img_uuid"`
		UUID    string `json:"uuid"`
	} `json:"data"`
}

type jobDetailResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Status int    `json:"status"` // 1 pending, 2 processing, 3 success, 4 failed
		Result string `json:"result"`
		Error  string `json:"error"`
	} `json:"data"`
}

// GenerateImage submits a nano-banana text-to-image job and returns the job
// UUID. The submit is retried on transport errors; a rejected request is not.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	reqBody := generateImageRequest{
		Prompt: prompt,
		Model:  "nano-banana",
	}
	var resp submitResponse
	if err := c.submit(ctx, "/api/v1/image/nano-banana", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.Data.ImgUUID == "" {
		return "", fmt.Errorf("goenhance returned no image job id: %s", resp.Msg)
	}
	return resp.Data.ImgUUID, nil
}

// EnhanceVideo submits a video-to-video style transfer job using the given
// style slug and returns the job UUID.
func (c *Client) EnhanceVideo(ctx context.Context, videoURL, styleSlug, prompt string) (string, error) {
	style, ok := Styles[styleSlug]
	if !ok {
		return "", fmt.Errorf("unknown style %q", styleSlug)
	}
	reqBody := videoRequest{
		VideoURL: videoURL,
		Type:     "mx-v2v",
		StyleID:  style.ID,
		Prompt:   prompt,
	}
	var resp submitResponse
	if err := c.submit(ctx, "/api/v1/video2video/generate", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.Data.UUID == "" {
		return "", fmt.Errorf("goenhance returned no video job id: %s", resp.Msg)
	}
	return resp.Data.UUID, nil
}

// JobDetail fetches the current state of a job.
func (c *Client) JobDetail(ctx context.Context, uuid string) (*Job, error) {
	url := fmt.Sprintf("%s/api/v1/jobs/detail?uuid=%s", strings.TrimSuffix(c.config.BaseURL, "/"), uuid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job detail: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("goenhance API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var detail jobDetailResponse
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to parse job detail: %w", err)
	}

	job := &Job{UUID: uuid, Error: detail.Data.Error}
	switch detail.Data.Status {
	case 1:
		job.Status = "pending"
	case 2:
		job.Status = "processing"
	case 3:
		job.Status = "success"
		job.ImageURL = detail.Data.Result
		job.VideoURL = detail.Data.Result
	case 4:
		job.Status = "failed"
	default:
		return nil, fmt.Errorf("goenhance returned unknown job status %d", detail.Data.Status)
	}
	return job, nil
}

// WaitForJob polls until the job reaches a terminal state or the poll deadline
// expires. A failed job is returned as an error.
func (c *Client) WaitForJob(ctx context.Context, uuid string) (*Job, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.PollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		job, err := c.JobDetail(ctx, uuid)
		if err != nil {
			return nil, err
		}
		if job.Done() {
			if job.Status == "failed" {
				return nil, fmt.Errorf("goenhance job %s failed: %s", uuid, job.Error)
			}
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("goenhance job %s timed out: %w", uuid, ctx.Err())
		case <-ticker.C:
		}
	}
}

// GenerateImageAndWait submits a text-to-image job and blocks until it
// finishes, returning the result image URL.
func (c *Client) GenerateImageAndWait(ctx context.Context, prompt string) (string, error) {
	uuid, err := c.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}
	job, err := c.WaitForJob(ctx, uuid)
	if err != nil {
		return "", err
	}
	return job.ImageURL, nil
}

// EnhanceVideoAndWait submits a style-transfer job and blocks until it
// finishes, returning the result video URL.
func (c *Client) EnhanceVideoAndWait(ctx context.Context, videoURL, styleSlug, prompt string) (string, error) {
	uuid, err := c.EnhanceVideo(ctx, videoURL, styleSlug, prompt)
	if err != nil {
		return "", err
	}
	job, err := c.WaitForJob(ctx, uuid)
	if err != nil {
		return "", err
	}
	return job.VideoURL, nil
}

func (c *Client) submit(ctx context.Context, path string, reqBody any, out *submitResponse) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	url := strings.TrimSuffix(c.config.BaseURL, "/") + path

	return retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to call goenhance API: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("goenhance API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Unrecoverable(fmt.Errorf("goenhance rejected request (status %d): %s", resp.StatusCode, truncate(string(body), 200)))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to parse response: %w", err))
		}
		if out.Code != 0 && out.Code != 200 {
			return retry.Unrecoverable(fmt.Errorf("goenhance error %d: %s", out.Code, out.Msg))
		}
		return nil
	}, retry.Context(ctx), retry.Attempts(3), retry.Delay(time.Second), retry.LastErrorOnly(true))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
