package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart_learning_backend/internal/config"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch链接", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch链接带参数", "https://www.youtube.com/watch?v=abc_123-XYZ&t=42s", "abc_123-XYZ"},
		{"短链", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"嵌入链接", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"v路径", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"无协议", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"非视频链接", "https://example.com/video/123", ""},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.url); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func newTranscriptServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *TranscriptService) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewTranscriptService(config.TranscriptConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 2,
	}, nil)
	return srv, svc
}

func writeSegments(w http.ResponseWriter, texts ...string) {
	segments := make([]transcriptSegment, 0, len(texts))
	for i, text := range texts {
		segments = append(segments, transcriptSegment{Text: text, Start: float64(i), Duration: 1})
	}
	json.NewEncoder(w).Encode(segments)
}

func TestFetchJoinsSegments(t *testing.T) {
	_, svc := newTranscriptServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeSegments(w, "xin", "chào", "các bạn")
	})

	got := svc.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if got != "xin chào các bạn" {
		t.Errorf("Fetch = %q, want segments joined by spaces", got)
	}
}

func TestFetchLanguageFallback(t *testing.T) {
	var requested []string
	_, svc := newTranscriptServer(t, func(w http.ResponseWriter, r *http.Request) {
		langs := r.URL.Query().Get("languages")
		requested = append(requested, langs)
		// 越南语档没有字幕，英语档命中
		if langs == "en,en-US" {
			writeSegments(w, "hello", "world")
			return
		}
		writeSegments(w)
	})

	got := svc.Fetch(context.Background(), "https://youtu.be/abc123")
	if got != "hello world" {
		t.Fatalf("Fetch = %q, want %q", got, "hello world")
	}

	want := []string{"vi,vi-VN", "en,en-US"}
	if len(requested) != len(want) {
		t.Fatalf("requested tiers = %v, want %v", requested, want)
	}
	for i := range want {
		if requested[i] != want[i] {
			t.Errorf("tier %d: requested %q, want %q", i, requested[i], want[i])
		}
	}
}

func TestFetchFallsThroughToAnyLanguage(t *testing.T) {
	var requested []string
	_, svc := newTranscriptServer(t, func(w http.ResponseWriter, r *http.Request) {
		langs := r.URL.Query().Get("languages")
		requested = append(requested, langs)
		if langs == "" {
			writeSegments(w, "bonjour")
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	got := svc.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if got != "bonjour" {
		t.Fatalf("Fetch = %q, want fallback to unrestricted tier", got)
	}
	if len(requested) != 3 {
		t.Errorf("expected 3 tier requests, got %d: %v", len(requested), requested)
	}
}

func TestFetchNoTranscript(t *testing.T) {
	_, svc := newTranscriptServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if got := svc.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc123"); got != "" {
		t.Errorf("Fetch = %q, want empty string when no tier succeeds", got)
	}
}

func TestFetchUnrecognizedURL(t *testing.T) {
	called := false
	_, svc := newTranscriptServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if got := svc.Fetch(context.Background(), "https://vimeo.com/12345"); got != "" {
		t.Errorf("Fetch = %q, want empty string for unrecognized URL", got)
	}
	if called {
		t.Error("transcript backend should not be called for unrecognized URLs")
	}
}
