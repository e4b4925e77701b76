package service

import (
	"math"
	"smart_learning_backend/internal/model"
	"smart_learning_backend/internal/repository"
	"smart_learning_backend/internal/util"
	"smart_learning_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	// 报告中的显式占位：未作答 / 题目没有定义正确选项
	NoAnswerMarker        = "No answer"
	NoCorrectChoiceMarker = "No correct choice defined"
)

// AnswerDetail 单题判分明细
type AnswerDetail struct {
	QuestionID   uint   `json:"questionId"`
	QuestionText string `json:"question"`
	SelectedText string `json:"selectedAnswer"`
	CorrectText  string `json:"correctAnswer"`
	IsCorrect    bool   `json:"isCorrect"`
}

// GradeResult 一次判分的全部输出
type GradeResult struct {
	Score   float64        `json:"score"`
	Correct int            `json:"correct"`
	Total   int            `json:"total"`
	Details []AnswerDetail `json:"answers"`
}

// GradeQuiz 纯函数判分：同样的题目与答案映射必然得到同样的结果。
// 答案映射的键是题目 ID 的十进制字符串（与请求体 JSON 键一致），值是选项 ID。
// 缺失条目按未作答处理；没有正确选项的题目任何作答都算错；
// total 为 0 时得分为 0。得分为 0-10 分制，四舍五入保留两位。
func GradeQuiz(questions []model.Question, answers map[string]uint) GradeResult {
	result := GradeResult{
		Total:   len(questions),
		Details: make([]AnswerDetail, 0, len(questions)),
	}

	for _, q := range questions {
		chosenID, answered := answers[util.FormatUint(q.ID)]

		var correctChoice *model.Choice
		for i := range q.Choices {
			if q.Choices[i].IsCorrect {
				correctChoice = &q.Choices[i]
				break
			}
		}

		selectedText := NoAnswerMarker
		if answered {
			// 选项 ID 不属于本题时维持占位文案，该题按答错计
			for i := range q.Choices {
				if q.Choices[i].ID == chosenID {
					selectedText = q.Choices[i].Text
					break
				}
			}
		}

		correctText := NoCorrectChoiceMarker
		isCorrect := false
		if correctChoice != nil {
			correctText = correctChoice.Text
			isCorrect = answered && chosenID == correctChoice.ID
		}

		if isCorrect {
			result.Correct++
		}

		result.Details = append(result.Details, AnswerDetail{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			SelectedText: selectedText,
			CorrectText:  correctText,
			IsCorrect:    isCorrect,
		})
	}

	if result.Total > 0 {
		result.Score = math.Round(float64(result.Correct)/float64(result.Total)*10*100) / 100
	}

	return result
}

// SubmitResult 提交响应：判分结果加新建记录的 ID
type SubmitResult struct {
	GradeResult
	AttemptID uint `json:"attemptId"`
}

// GradingService 判分与记录落库。每次提交都新建一条 QuizAttempt，
// 不限次数也不去重，历史即全部提交记录。
type GradingService struct {
	QuizRepo    *repository.QuizRepository
	SectionRepo *repository.SectionRepository
	AttemptRepo *repository.AttemptRepository
	Progress    *ProgressService
}

func NewGradingService(
	quizRepo *repository.QuizRepository,
	sectionRepo *repository.SectionRepository,
	attemptRepo *repository.AttemptRepository,
	progress *ProgressService,
) *GradingService {
	return &GradingService{
		QuizRepo:    quizRepo,
		SectionRepo: sectionRepo,
		AttemptRepo: attemptRepo,
		Progress:    progress,
	}
}

func (s *GradingService) SubmitQuiz(userID, quizID uint, answers map[string]uint) (*SubmitResult, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	if answers == nil {
		answers = map[string]uint{}
	}

	graded := GradeQuiz(quiz.Questions, answers)

	attempt := &model.QuizAttempt{
		UserID:       userID,
		QuizID:       quizID,
		Score:        graded.Score,
		CorrectCount: graded.Correct,
		TotalCount:   graded.Total,
		Answers:      answers,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	// 提交成功后推进课程进度；进度失败不影响判分结果
	if section, err := s.SectionRepo.FindByID(quiz.SectionID); err == nil {
		if err := s.Progress.RecordItemVisit(userID, section.CourseID); err != nil {
			logger.Log.Warn("progress update failed",
				zap.Uint("user_id", userID),
				zap.Uint("course_id", section.CourseID),
				zap.Error(err))
		}
	}

	return &SubmitResult{GradeResult: graded, AttemptID: attempt.ID}, nil
}

// AttemptReport 已有记录的回放明细，供教师查看与 AI 反馈使用。
// 判分是纯计算，用存档的答案映射重算即可还原当时的报告。
func (s *GradingService) AttemptReport(attemptID uint) (*model.QuizAttempt, *GradeResult, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, nil, util.ErrAttemptNotFound
	}

	quiz, err := s.QuizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		return nil, nil, util.ErrQuizNotFound
	}

	graded := GradeQuiz(quiz.Questions, attempt.Answers)
	return attempt, &graded, nil
}

func (s *GradingService) HistoryByUser(userID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUser(userID)
}

func (s *GradingService) HistoryByUserAndQuiz(userID, quizID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUserAndQuiz(userID, quizID)
}

func (s *GradingService) ResultsByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByQuiz(quizID)
}
