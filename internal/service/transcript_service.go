package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"smart_learning_backend/internal/config"
	"smart_learning_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 支持的视频链接形态：watch 链接、短链、嵌入链接
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]+)`),
}

// 语言优先级：越南语及地区变体 → 英语及地区变体 → 不限语言
var languagePriority = [][]string{
	{"vi", "vi-VN"},
	{"en", "en-US"},
	nil,
}

// TranscriptService 外部字幕服务适配器。
// 取不到字幕一律返回空串，绝不向调用方抛错，生成管线按"无字幕"继续。
type TranscriptService struct {
	cfg    config.TranscriptConfig
	rdb    *redis.Client
	client *http.Client
}

func NewTranscriptService(cfg config.TranscriptConfig, rdb *redis.Client) *TranscriptService {
	return &TranscriptService{
		cfg: cfg,
		rdb: rdb,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// ExtractVideoID 从视频链接中提取视频标识，无法识别时返回空串
func ExtractVideoID(videoURL string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(videoURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// Fetch 按语言优先级取字幕并拼成一段文本。
// 链接无法识别、字幕不存在、上游故障都返回空串。
func (s *TranscriptService) Fetch(ctx context.Context, videoURL string) string {
	if videoURL == "" {
		return ""
	}

	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return ""
	}

	if cached, ok := s.cacheGet(ctx, videoID); ok {
		return cached
	}

	for _, languages := range languagePriority {
		text, err := s.fetchTier(ctx, videoID, languages)
		if err != nil {
			continue // 换下一个语言档
		}
		if text != "" {
			s.cacheSet(ctx, videoID, text)
			return text
		}
	}

	logger.Log.Info("no transcript available", zap.String("video_id", videoID))
	return ""
}

type transcriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

func (s *TranscriptService) fetchTier(ctx context.Context, videoID string, languages []string) (string, error) {
	endpoint := fmt.Sprintf("%s/transcripts/%s", s.cfg.BaseURL, url.PathEscape(videoID))
	if len(languages) > 0 {
		endpoint += "?languages=" + url.QueryEscape(strings.Join(languages, ","))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript API status %d", resp.StatusCode)
	}

	var segments []transcriptSegment
	if err := json.NewDecoder(resp.Body).Decode(&segments); err != nil {
		return "", err
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("no segments")
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " "), nil
}

func (s *TranscriptService) cacheGet(ctx context.Context, videoID string) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	val, err := s.rdb.Get(ctx, "transcript:"+videoID).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *TranscriptService) cacheSet(ctx context.Context, videoID, text string) {
	if s.rdb == nil {
		return
	}
	ttl := time.Duration(s.cfg.CacheTTLHours) * time.Hour
	if err := s.rdb.Set(ctx, "transcript:"+videoID, text, ttl).Err(); err != nil {
		logger.Log.Warn("transcript cache write failed", zap.Error(err))
	}
}
