package service

import (
	"context"
	"encoding/json"
	"fmt"
	"smart_learning_backend/internal/model"
	"smart_learning_backend/internal/repository"
	"smart_learning_backend/internal/util"
	"smart_learning_backend/pkg/logger"
	"smart_learning_backend/pkg/monitoring"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const (
	// 语料截断上限，避免超出补全后端的上下文预算
	generationCorpusLimit = 10000
	MinQuestions          = 1
	MaxQuestions          = 30
)

// 生成题目的结构约束：question 字符串、恰好 4 个选项、正确答案下标 0-3
var generatedQuestionSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["question", "choices", "correct_answer"],
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"choices": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 4,
			"maxItems": 4
		},
		"correct_answer": {"type": "integer", "minimum": 0, "maximum": 3}
	}
}`)

// GeneratedQuestion 通过校验的生成题目，预览与入库共用同一结构
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	CorrectAnswer int      `json:"correct_answer"`
}

// QuizGenService 测验生成管线：聚合语料 → 驱动补全后端 → 解析校验 → 装配
type QuizGenService struct {
	SectionRepo *repository.SectionRepository
	LessonRepo  *repository.LessonRepository
	QuizRepo    *repository.QuizRepository
	Content     *ContentService
	AI          *AIService
}

func NewQuizGenService(
	sectionRepo *repository.SectionRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	content *ContentService,
	ai *AIService,
) *QuizGenService {
	return &QuizGenService{
		SectionRepo: sectionRepo,
		LessonRepo:  lessonRepo,
		QuizRepo:    quizRepo,
		Content:     content,
		AI:          ai,
	}
}

// GenerateForSection 从章节（或指定课时子集）生成最多 numQuestions 道题。
// 章节无可用内容返回 ErrNoContent；后端失败或全部解析失败返回空列表而非错误。
func (s *QuizGenService) GenerateForSection(ctx context.Context, sectionID uint, numQuestions int, lessonIDs []uint) (string, []GeneratedQuestion, error) {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		return "", nil, util.ErrSectionNotFound
	}

	var lessons []model.Lesson
	if len(lessonIDs) > 0 {
		candidates, err := s.LessonRepo.FindByIDs(lessonIDs)
		if err != nil {
			return "", nil, err
		}
		for _, l := range candidates {
			if l.SectionID == sectionID {
				lessons = append(lessons, l)
			}
		}
	} else {
		lessons, err = s.LessonRepo.ListBySection(sectionID)
		if err != nil {
			return "", nil, err
		}
	}

	corpus := s.Content.Corpus(ctx, lessons)
	if strings.TrimSpace(corpus) == "" {
		return section.Title, nil, util.ErrNoContent
	}

	questions, err := s.GenerateFromCorpus(ctx, corpus, numQuestions)
	return section.Title, questions, err
}

// GenerateFromCorpus 驱动补全后端并解析结果。上游故障与全部条目不合规
// 都折叠成 ErrNoQuestions，HTTP 层据此返回 4xx 而不是空的 200。
func (s *QuizGenService) GenerateFromCorpus(ctx context.Context, corpus string, numQuestions int) ([]GeneratedQuestion, error) {
	corpus = truncateAtRuneBoundary(corpus, generationCorpusLimit)

	response, err := s.AI.Complete(ctx, "", buildGenerationPrompt(corpus, numQuestions))
	if err != nil {
		logger.Log.Error("quiz generation call failed", zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("quiz_generation", "error").Inc()
		return nil, util.ErrNoQuestions
	}
	monitoring.AIRequestCounter.WithLabelValues("quiz_generation", "ok").Inc()

	questions := ParseGeneratedQuestions(response, numQuestions)
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}
	return questions, nil
}

func buildGenerationPrompt(corpus string, numQuestions int) string {
	return fmt.Sprintf(`Based on the following educational content, generate %d multiple choice questions.
Each question should have exactly 4 answer choices with only one correct answer.

Content:
%s

Please format your response as a JSON array with this exact structure:
[
    {
        "question": "Question text here?",
        "choices": [
            "Choice A text",
            "Choice B text",
            "Choice C text",
            "Choice D text"
        ],
        "correct_answer": 0
    }
]

Requirements:
- Questions should be educational and test understanding
- All choices should be plausible but only one correct
- Answer in the same language as the content (use Vietnamese if the content is in Vietnamese, otherwise use English)
- correct_answer should be the index (0-3) of the correct choice
- Make questions varied in difficulty
- Focus on key concepts and important information`, numQuestions, corpus)
}

// ExtractJSONArray 在自由文本里找第一个 '[' 到最后一个 ']' 的片段，
// 容忍后端用散文或代码块包裹数组。找不到返回空串。
func ExtractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// ParseGeneratedQuestions 解析补全结果并逐项做结构校验。
// 不合规的条目静默丢弃；整体解析失败返回空列表。结果截断到 limit。
func ParseGeneratedQuestions(response string, limit int) []GeneratedQuestion {
	raw := ExtractJSONArray(response)
	if raw == "" {
		logger.Log.Warn("no JSON array found in AI response")
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Log.Warn("AI response array is not valid JSON", zap.Error(err))
		return nil
	}

	questions := make([]GeneratedQuestion, 0, len(items))
	for _, item := range items {
		result, err := gojsonschema.Validate(generatedQuestionSchema, gojsonschema.NewBytesLoader(item))
		if err != nil || !result.Valid() {
			continue
		}

		var q GeneratedQuestion
		if err := json.Unmarshal(item, &q); err != nil {
			continue
		}
		questions = append(questions, q)

		if len(questions) == limit {
			break
		}
	}

	return questions
}

// BuildQuestionModels 装配持久化结构：题目序号取列表下标，
// correct_answer 指向的选项标记为正确，其余 3 个为错误。
// 预览模式与入库模式共用这一装配结果。
func BuildQuestionModels(items []GeneratedQuestion) []model.Question {
	questions := make([]model.Question, 0, len(items))
	for i, item := range items {
		q := model.Question{
			Text:     item.Question,
			Position: uint(i),
			Choices:  make([]model.Choice, 0, len(item.Choices)),
		}
		for ci, text := range item.Choices {
			q.Choices = append(q.Choices, model.Choice{
				Text:      text,
				IsCorrect: ci == item.CorrectAnswer,
			})
		}
		questions = append(questions, q)
	}
	return questions
}

// CreateQuiz 入库模式：新建测验并装配生成的题目
func (s *QuizGenService) CreateQuiz(sectionID uint, title string, position uint, items []GeneratedQuestion) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:     title,
		Position:  position,
		SectionID: sectionID,
	}
	if err := s.QuizRepo.CreateWithQuestions(quiz, BuildQuestionModels(items)); err != nil {
		return nil, err
	}
	return quiz, nil
}

// ReplaceQuizQuestions 入库模式：整体替换既有测验的题目集
func (s *QuizGenService) ReplaceQuizQuestions(quizID uint, items []GeneratedQuestion) error {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		return util.ErrQuizNotFound
	}
	return s.QuizRepo.ReplaceQuestions(quizID, BuildQuestionModels(items))
}
