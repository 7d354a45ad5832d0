package goenhance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(srv *httptest.Server) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.APIKey = "test-key"
	cfg.PollInterval = 10 * time.Millisecond
	cfg.PollTimeout = time.Second
	return NewClient(cfg)
}

func TestClient_GenerateImageAndWait(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/image/nano-banana":
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("authorization header = %q", got)
			}
			w.Write([]byte(`{"code":0,"data":{"img_uuid":"img-123"}}`))
		case "/api/v1/jobs/detail":
			if r.URL.Query().Get("uuid") != "img-123" {
				t.Errorf("poll uuid = %q", r.URL.Query().Get("uuid"))
			}
			if atomic.AddInt32(&polls, 1) < 2 {
				w.Write([]byte(`{"code":0,"data":{"status":2}}`))
				return
			}
			w.Write([]byte(`{"code":0,"data":{"status":3,"result":"https://cdn.example.com/img.png"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	url, err := testClient(srv).GenerateImageAndWait(context.Background(), "a cute cat")
	if err != nil {
		t.Fatalf("GenerateImageAndWait: %v", err)
	}
	if url != "https://cdn.example.com/img.png" {
		t.Errorf("image url = %q", url)
	}
}

func TestClient_EnhanceVideoUnknownStyle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unknown style must not reach the API")
	}))
	defer srv.Close()

	if _, err := testClient(srv).EnhanceVideo(context.Background(), "https://x/v.mp4", "no_such_style", ""); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestClient_WaitForJobFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"data":{"status":4,"error":"nsfw input"}}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv).WaitForJob(context.Background(), "job-1"); err == nil {
		t.Error("expected error for failed job")
	}
}

func TestClient_SubmitRejectedNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	if _, err := testClient(srv).GenerateImage(context.Background(), "x"); err == nil {
		t.Error("expected error for rejected submit")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("rejected submit retried %d times", n)
	}
}
