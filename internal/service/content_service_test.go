package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"smart_learning_backend/internal/config"
	"smart_learning_backend/internal/model"
	"smart_learning_backend/internal/util"
)

// AI 后端桩：把每次收到的 user prompt 记下来并回复固定文本
func newAIStub(t *testing.T, reply string) (*AIService, *[]string) {
	t.Helper()
	var prompts []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		for _, m := range req.Messages {
			if m.Role == "user" {
				prompts = append(prompts, m.Content)
			}
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	return NewAIService(config.AIConfig{BaseURL: srv.URL, Model: "test-model"}), &prompts
}

func newContentService(t *testing.T, ai *AIService) *ContentService {
	t.Helper()
	// 字幕服务指向一个永远 404 的地址，带视频的用例单独搭桩
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	transcript := NewTranscriptService(config.TranscriptConfig{BaseURL: srv.URL, TimeoutSeconds: 2}, nil)
	return NewContentService(transcript, ai)
}

func TestLessonBlockLabels(t *testing.T) {
	svc := newContentService(t, nil)
	lesson := &model.Lesson{Title: "Biến và kiểu dữ liệu", Content: "Nội dung bài học."}

	block := svc.LessonBlock(context.Background(), lesson)

	if !strings.Contains(block, "Title: Biến và kiểu dữ liệu") {
		t.Error("block missing Title label")
	}
	if !strings.Contains(block, "Content: Nội dung bài học.") {
		t.Error("block missing Content label")
	}
	if strings.Contains(block, "Video Transcript:") {
		t.Error("block should not carry a transcript label without a video")
	}
}

func TestLessonBlockWithTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeSegments(w, "video", "transcript", "text")
	}))
	t.Cleanup(srv.Close)

	transcript := NewTranscriptService(config.TranscriptConfig{BaseURL: srv.URL, TimeoutSeconds: 2}, nil)
	svc := NewContentService(transcript, nil)

	lesson := &model.Lesson{
		Title:    "Lesson",
		VideoURL: "https://www.youtube.com/watch?v=abc123",
	}
	block := svc.LessonBlock(context.Background(), lesson)

	if !strings.Contains(block, "Video Transcript: video transcript text") {
		t.Errorf("block = %q, want transcript section", block)
	}
	if strings.Contains(block, "Content:") {
		t.Error("empty lesson body should not produce a Content label")
	}
}

func TestLessonBlockEmpty(t *testing.T) {
	svc := newContentService(t, nil)
	lesson := &model.Lesson{Title: "Empty", Content: "   "}

	if block := svc.LessonBlock(context.Background(), lesson); block != "" {
		t.Errorf("block = %q, want empty string for lesson without content", block)
	}
}

func TestCorpusSeparator(t *testing.T) {
	svc := newContentService(t, nil)
	lessons := []model.Lesson{
		{Title: "L1", Content: "first"},
		{Title: "Empty"},
		{Title: "L2", Content: "second"},
	}

	corpus := svc.Corpus(context.Background(), lessons)

	if strings.Count(corpus, "--- Lesson Separator ---") != 1 {
		t.Errorf("corpus = %q, want exactly one separator between two non-empty blocks", corpus)
	}
	if strings.Contains(corpus, "Empty") {
		t.Error("empty lessons should be skipped entirely")
	}
}

func TestSummarizeTooShort(t *testing.T) {
	svc := newContentService(t, nil)
	lesson := &model.Lesson{Title: "Short", Content: "too short"}

	_, err := svc.Summarize(context.Background(), lesson)
	if !errors.Is(err, util.ErrContentTooShort) {
		t.Errorf("err = %v, want ErrContentTooShort", err)
	}
}

func TestSummarize(t *testing.T) {
	ai, prompts := newAIStub(t, "- điểm chính 1\n- điểm chính 2")
	svc := newContentService(t, ai)

	lesson := &model.Lesson{
		Title:   "Lesson",
		Content: strings.Repeat("Nội dung bài học khá dài để vượt ngưỡng tối thiểu. ", 5),
	}

	summary, err := svc.Summarize(context.Background(), lesson)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.HasPrefix(summary, "- điểm chính 1") {
		t.Errorf("summary = %q", summary)
	}

	if len(*prompts) != 1 {
		t.Fatalf("AI called %d times, want 1", len(*prompts))
	}
	if !strings.Contains((*prompts)[0], "bullet point") {
		t.Error("prompt should constrain output to a bullet list")
	}
}

func TestSummarizeEmptyReply(t *testing.T) {
	ai, _ := newAIStub(t, "   ")
	svc := newContentService(t, ai)

	lesson := &model.Lesson{
		Title:   "Lesson",
		Content: strings.Repeat("long enough content for the minimum threshold check. ", 5),
	}

	if _, err := svc.Summarize(context.Background(), lesson); err == nil {
		t.Error("expected an error for a blank AI reply")
	}
}

func TestTruncateAtRuneBoundary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"不超限原样返回", "ngắn", 100, "ngắn"},
		{"纯 ASCII 整段截断", "abcdef", 3, "abc"},
		// "kiến" 里的 ế 占 3 字节，上限落在字符中间时要退到边界
		{"越南语多字节退避", "kiến", 3, "ki"},
		{"恰好落在边界", "kiến", 2, "ki"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateAtRuneBoundary(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("truncateAtRuneBoundary(%q, %d) = %q, want %q", tt.input, tt.limit, tt.want, got)
			}
			if !utf8.ValidString(got) {
				t.Errorf("result %q is not valid UTF-8", got)
			}
		})
	}
}
