package controller

import (
	"errors"

	"smart_learning_backend/internal/service"
	"smart_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StudentController 学生侧：选课、学习、摘要、答题与反馈
type StudentController struct {
	CourseService   *service.CourseService
	QuizService     *service.QuizService
	GradingService  *service.GradingService
	FeedbackService *service.FeedbackService
}

func NewStudentController(
	courseService *service.CourseService,
	quizService *service.QuizService,
	gradingService *service.GradingService,
	feedbackService *service.FeedbackService,
) *StudentController {
	return &StudentController{
		CourseService:   courseService,
		QuizService:     quizService,
		GradingService:  gradingService,
		FeedbackService: feedbackService,
	}
}

// BrowseCourses godoc
// @Summary 浏览已发布课程
// @Tags 课程
// @Produce  json
// @Param   search query string false "按标题模糊搜索"
// @Param   category query string false "按分类筛选"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *StudentController) BrowseCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListPublished(ctx.Query("search"), ctx.Query("category"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Enroll godoc
// @Summary 选课
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 201 {object} util.Response{data=model.UserCourse}
// @Failure 400 {object} util.Response "课程未发布"
// @Failure 409 {object} util.Response "已选过该课程"
// @Router /api/student/courses/{id}/enroll [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.CourseService.Enroll(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// MyEnrollments godoc
// @Summary 我的课程与进度
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.UserCourse}
// @Router /api/student/my-courses [get]
func (c *StudentController) MyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := c.CourseService.MyEnrollments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// Lesson godoc
// @Summary 查看课时
// @Description 需要已选课，查看即计入课程进度
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response
// @Router /api/student/lessons/{id} [get]
func (c *StudentController) Lesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lesson, err := c.CourseService.StudentLesson(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// SummarizeLesson godoc
// @Summary AI 课时摘要
// @Description 对课时正文与字幕生成要点列表，正文过短时拒绝
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=object} "摘要文本"
// @Failure 400 {object} util.Response "内容过短"
// @Failure 502 {object} util.Response "AI 后端不可用"
// @Router /api/student/lessons/{id}/summarize [post]
func (c *StudentController) SummarizeLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	summary, err := c.CourseService.SummarizeLesson(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrContentTooShort):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrSectionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		default:
			util.BadGateway(ctx, "AI summarization is currently unavailable")
		}
		return
	}
	util.Success(ctx, gin.H{"summary": summary})
}

// Quiz godoc
// @Summary 查看测验（学生视图，不含答案）
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.StudentQuizView}
// @Failure 403 {object} util.Response "未选课"
// @Router /api/student/quizzes/{id} [get]
func (c *StudentController) Quiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.QuizService.StudentQuiz(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SubmitQuizRequest 提交答案，键为题目 ID 的十进制字符串，值为选项 ID
type SubmitQuizRequest struct {
	Answers map[string]uint `json:"answers"`
}

// SubmitQuiz godoc
// @Summary 提交测验答案
// @Description 即时判分并写入提交记录，不限提交次数
// @Tags 学生
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body SubmitQuizRequest true "答案映射"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response
// @Router /api/student/quizzes/{id}/submit [post]
func (c *StudentController) SubmitQuiz(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quizID := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)

	// 选课校验复用学生答题视图的归属链路
	if _, err := c.QuizService.StudentQuiz(quizID, claims.UserID); err != nil {
		writeCourseError(ctx, err)
		return
	}

	result, err := c.GradingService.SubmitQuiz(claims.UserID, quizID, req.Answers)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// QuizHistory godoc
// @Summary 我的全部提交历史
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/student/quiz-history [get]
func (c *StudentController) QuizHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempts, err := c.GradingService.HistoryByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// QuizHistoryByQuiz godoc
// @Summary 我在某个测验上的提交历史
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/student/quizzes/{id}/history [get]
func (c *StudentController) QuizHistoryByQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempts, err := c.GradingService.HistoryByUserAndQuiz(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// AttemptDetail godoc
// @Summary 查看一次提交的判分明细
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交记录ID"
// @Success 200 {object} util.Response{data=service.GradeResult}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/student/quiz-attempts/{id} [get]
func (c *StudentController) AttemptDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempt, graded, err := c.GradingService.AttemptReport(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	if attempt.UserID != claims.UserID {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, gin.H{
		"attempt": attempt,
		"report":  graded,
	})
}

// AttemptFeedback godoc
// @Summary 为我的一次提交生成 AI 反馈
// @Description Markdown 格式的优势 / 不足 / 下一步建议
// @Tags 学生
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交记录ID"
// @Success 200 {object} util.Response{data=object} "Markdown 反馈"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 502 {object} util.Response "AI 后端不可用"
// @Router /api/student/quiz-attempts/{id}/ai-feedback [post]
func (c *StudentController) AttemptFeedback(ctx *gin.Context) {
	attemptID := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)

	ownerID, err := c.FeedbackService.OwnerID(attemptID)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	if ownerID != claims.UserID {
		util.Forbidden(ctx)
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
