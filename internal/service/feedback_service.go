package service

import (
	"context"
	"fmt"
	"strings"

	"smart_learning_backend/internal/util"
	"smart_learning_backend/pkg/logger"
	"smart_learning_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const feedbackSystemPrompt = "You are a supportive tutor who writes concise, encouraging feedback for students based on their quiz results."

// FeedbackService 基于判分报告生成 AI 学习反馈。
// 反馈不落库，每次请求实时生成。
type FeedbackService struct {
	Grading *GradingService
	AI      *AIService
}

func NewFeedbackService(grading *GradingService, ai *AIService) *FeedbackService {
	return &FeedbackService{Grading: grading, AI: ai}
}

// buildFeedbackPrompt 把逐题报告展开成文本并约束输出为 Markdown 三段结构
func buildFeedbackPrompt(quizTitle string, graded *GradeResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A student has just completed the quiz \"%s\" with a score of %.2f/10 (%d of %d correct).\n\n", quizTitle, graded.Score, graded.Correct, graded.Total)
	b.WriteString("Here is the detail of each question:\n\n")

	for i, d := range graded.Details {
		verdict := "INCORRECT"
		if d.IsCorrect {
			verdict = "CORRECT"
		}
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, d.QuestionText)
		fmt.Fprintf(&b, "Student's answer: %s (%s)\n", d.SelectedText, verdict)
		fmt.Fprintf(&b, "Correct answer: %s\n\n", d.CorrectText)
	}

	b.WriteString("Write personalized feedback for this student in Markdown with exactly three sections, ")
	b.WriteString("each starting with a bold heading: **Strengths**, **Weaknesses** and **Next steps**. ")
	b.WriteString("Use italics to emphasize key concepts the student should review. ")
	b.WriteString("Respond in the same language as the quiz questions. ")
	b.WriteString("Do not add any introduction or closing outside those three sections.")

	return b.String()
}

// GenerateForAttempt 为一次提交记录生成反馈。上游 AI 失败或返回空时报
// util.ErrFeedbackUnavailable，由调用方映射为网关错误。
func (s *FeedbackService) GenerateForAttempt(ctx context.Context, attemptID uint) (string, error) {
	attempt, graded, err := s.Grading.AttemptReport(attemptID)
	if err != nil {
		return "", err
	}

	quizTitle := ""
	if attempt.Quiz != nil {
		quizTitle = attempt.Quiz.Title
	}

	prompt := buildFeedbackPrompt(quizTitle, graded)

	reply, err := s.AI.Complete(ctx, feedbackSystemPrompt, prompt)
	if err != nil {
		monitoring.AIRequestCounter.WithLabelValues("feedback", "error").Inc()
		logger.Log.Error("feedback generation failed",
			zap.Uint("attempt_id", attemptID),
			zap.Error(err))
		return "", util.ErrFeedbackUnavailable
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		monitoring.AIRequestCounter.WithLabelValues("feedback", "error").Inc()
		return "", util.ErrFeedbackUnavailable
	}

	monitoring.AIRequestCounter.WithLabelValues("feedback", "ok").Inc()
	return reply, nil
}

// OwnerID 反馈接口的归属校验用：学生只能看自己的记录
func (s *FeedbackService) OwnerID(attemptID uint) (uint, error) {
	attempt, err := s.Grading.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return 0, util.ErrAttemptNotFound
	}
	return attempt.UserID, nil
}
