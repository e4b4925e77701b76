package service

import (
	"context"
	"fmt"
	"smart_learning_backend/internal/model"
	"smart_learning_backend/internal/util"
	"strings"
	"unicode/utf8"
)

const (
	// 摘要语料上限，低于生成语料上限
	summarizeCorpusLimit = 5000
	// 摘要要求的最小内容长度
	summarizeMinLength = 100
	// 多课时语料的课时分隔行
	lessonSeparator = "\n\n--- Lesson Separator ---\n\n"
)

// truncateAtRuneBoundary 按字节上限截断并退避到字符边界，
// 避免把越南语等多字节字符从中间切开喂给补全后端
func truncateAtRuneBoundary(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// ContentService 把课时正文与视频字幕聚合成一份语料，
// 供测验生成与摘要两条 AI 链路使用。
type ContentService struct {
	transcript *TranscriptService
	ai         *AIService
}

func NewContentService(transcript *TranscriptService, ai *AIService) *ContentService {
	return &ContentService{transcript: transcript, ai: ai}
}

// LessonBlock 单课时语料块，标注来源便于生成端阅读。
// 正文为空且无字幕的课时视为无可用内容，返回空串。
func (s *ContentService) LessonBlock(ctx context.Context, lesson *model.Lesson) string {
	parts := []string{}

	body := strings.TrimSpace(lesson.Content)
	transcript := ""
	if lesson.VideoURL != "" {
		transcript = strings.TrimSpace(s.transcript.Fetch(ctx, lesson.VideoURL))
	}

	if body == "" && transcript == "" {
		return ""
	}

	parts = append(parts, "Title: "+lesson.Title)
	if body != "" {
		parts = append(parts, "Content: "+body)
	}
	if transcript != "" {
		parts = append(parts, "Video Transcript: "+transcript)
	}

	return strings.Join(parts, "\n\n")
}

// Corpus 多课时语料，课时块之间用分隔行区分边界
func (s *ContentService) Corpus(ctx context.Context, lessons []model.Lesson) string {
	blocks := []string{}
	for i := range lessons {
		if block := s.LessonBlock(ctx, &lessons[i]); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, lessonSeparator)
}

// Summarize 生成课时要点摘要。内容不足 100 字符时直接拒绝，不调用 AI。
func (s *ContentService) Summarize(ctx context.Context, lesson *model.Lesson) (string, error) {
	block := s.LessonBlock(ctx, lesson)
	if len(block) < summarizeMinLength {
		return "", util.ErrContentTooShort
	}

	block = truncateAtRuneBoundary(block, summarizeCorpusLimit)

	prompt := fmt.Sprintf(`Extract the core ideas of the following lecture material and summarize them as a short, easy to review list.

Requirements:
- Write each key idea on its own line as a bullet point (-).
- At most 20 key ideas.
- Do not rewrite the full text, only the essential information.
- Answer in the same language as the material (keep Vietnamese in Vietnamese, English in English).

The material includes the lecture text and the video subtitles:
"""
%s
"""`, block)

	summary, err := s.ai.Complete(ctx, "", prompt)
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("empty summary from AI backend")
	}
	return summary, nil
}
