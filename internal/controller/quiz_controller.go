package controller

import (
	"errors"

	"smart_learning_backend/internal/service"
	"smart_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController 教师侧测验管理：人工编辑、AI 生成预览与入库、成绩查看
type QuizController struct {
	QuizService     *service.QuizService
	QuizGenService  *service.QuizGenService
	GradingService  *service.GradingService
	FeedbackService *service.FeedbackService
}

func NewQuizController(
	quizService *service.QuizService,
	quizGenService *service.QuizGenService,
	gradingService *service.GradingService,
	feedbackService *service.FeedbackService,
) *QuizController {
	return &QuizController{
		QuizService:     quizService,
		QuizGenService:  quizGenService,
		GradingService:  gradingService,
		FeedbackService: feedbackService,
	}
}

// GenerateQuizRequest 生成请求，lessonIds 为空时使用整个章节的课时
type GenerateQuizRequest struct {
	NumQuestions int    `json:"numQuestions" binding:"required,min=1,max=30"`
	LessonIDs    []uint `json:"lessonIds"`
}

// GenerateQuiz godoc
// @Summary AI 生成测验预览
// @Description 聚合章节课时内容（含视频字幕）生成候选题目，仅预览不入库
// @Tags 教师-测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Param   body body GenerateQuizRequest true "生成参数"
// @Success 200 {object} util.Response{data=object} "候选题目列表"
// @Failure 400 {object} util.Response "章节无可用内容或未能生成题目"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/sections/{id}/generate-quiz [post]
func (c *QuizController) GenerateQuiz(ctx *gin.Context) {
	var req GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sectionID := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)
	if err := c.QuizService.CheckSectionOwnership(sectionID, claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}

	sectionTitle, questions, err := c.QuizGenService.GenerateForSection(
		ctx.Request.Context(), sectionID, req.NumQuestions, req.LessonIDs)
	if err != nil {
		if errors.Is(err, util.ErrNoContent) || errors.Is(err, util.ErrNoQuestions) {
			util.BadRequest(ctx, err.Error())
			return
		}
		writeCourseError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"sectionTitle": sectionTitle,
		"numQuestions": len(questions),
		"questions":    questions,
	})
}

// QuestionPayload 入库题目，结构与生成预览一致
type QuestionPayload struct {
	Question      string   `json:"question" binding:"required"`
	Choices       []string `json:"choices" binding:"required,len=4,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" binding:"required,min=0,max=3"`
}

func toGenerated(items []QuestionPayload) []service.GeneratedQuestion {
	out := make([]service.GeneratedQuestion, 0, len(items))
	for _, item := range items {
		out = append(out, service.GeneratedQuestion{
			Question:      item.Question,
			Choices:       item.Choices,
			CorrectAnswer: *item.CorrectAnswer,
		})
	}
	return out
}

type CreateQuizRequest struct {
	Title     string            `json:"title" binding:"required,max=200"`
	Position  uint              `json:"position"`
	Questions []QuestionPayload `json:"questions" binding:"required,min=1,dive"`
}

// CreateQuiz godoc
// @Summary 在章节下创建测验
// @Description 预览确认后提交，或直接人工录入题目
// @Tags 教师-测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Param   body body CreateQuizRequest true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/sections/{id}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sectionID := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)
	if err := c.QuizService.CheckSectionOwnership(sectionID, claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}

	quiz, err := c.QuizGenService.CreateQuiz(sectionID, req.Title, req.Position, toGenerated(req.Questions))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

type ReplaceQuestionsRequest struct {
	Questions []QuestionPayload `json:"questions" binding:"required,min=1,dive"`
}

// ReplaceQuestions godoc
// @Summary 整体替换测验题目
// @Description 重新生成后覆盖旧题目，事务内先删后建
// @Tags 教师-测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body ReplaceQuestionsRequest true "新题目"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/quizzes/{id}/questions [put]
func (c *QuizController) ReplaceQuestions(ctx *gin.Context) {
	var req ReplaceQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quizID := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)
	if _, err := c.QuizService.CheckQuizOwnership(quizID, claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}

	if err := c.QuizGenService.ReplaceQuizQuestions(quizID, toGenerated(req.Questions)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type UpdateQuizRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Position *uint   `json:"position"`
}

// UpdateQuiz godoc
// @Summary 更新测验标题或位置
// @Tags 教师-测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body UpdateQuizRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/teacher/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	var req UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.UpdateQuiz(
		util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role, req.Title, req.Position)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Tags 教师-测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.QuizService.DeleteQuiz(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// QuizDetail godoc
// @Summary 测验详情（教师视图，含正确答案）
// @Tags 教师-测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/teacher/quizzes/{id} [get]
func (c *QuizController) QuizDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.TeacherQuizDetail(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// QuizResults godoc
// @Summary 测验的全部提交记录
// @Tags 教师-测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/teacher/quizzes/{id}/results [get]
func (c *QuizController) QuizResults(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)
	if _, err := c.QuizService.CheckQuizOwnership(quizID, claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}

	attempts, err := c.GradingService.ResultsByQuiz(quizID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// AttemptDetail godoc
// @Summary 查看一次提交的判分明细（教师侧）
// @Tags 教师-测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交记录ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/quiz-attempts/{id} [get]
func (c *QuizController) AttemptDetail(ctx *gin.Context) {
	attempt, graded, err := c.GradingService.AttemptReport(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		writeCourseError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	if _, err := c.QuizService.CheckQuizOwnership(attempt.QuizID, claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"attempt": attempt,
		"report":  graded,
	})
}

// AttemptFeedback godoc
// @Summary 为学生的一次提交生成 AI 反馈（教师侧）
// @Tags 教师-测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交记录ID"
// @Success 200 {object} util.Response{data=object} "Markdown 反馈"
// @Failure 404 {object} util.Response
// @Failure 502 {object} util.Response "AI 后端不可用"
// @Router /api/teacher/quiz-attempts/{id}/ai-feedback [post]
func (c *QuizController) AttemptFeedback(ctx *gin.Context) {
	attemptID := util.MustParseUint(ctx.Param("id"))

	attempt, _, err := c.GradingService.AttemptReport(attemptID)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}

	// 教师只能看自己课程下测验的提交
	claims := util.GetUserFromContext(ctx)
	if _, err := c.QuizService.CheckQuizOwnership(attempt.QuizID, claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}

	feedback, err := c.FeedbackService.GenerateForAttempt(ctx.Request.Context(), attemptID)
	if err != nil {
		if errors.Is(err, util.ErrFeedbackUnavailable) {
			util.BadGateway(ctx, err.Error())
			return
		}
		writeCourseError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"feedback": feedback})
}
