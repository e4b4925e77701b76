package controller

import (
	"errors"

	"smart_learning_backend/internal/model"
	"smart_learning_backend/internal/service"
	"smart_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CourseController 教师侧课程 / 章节 / 课时管理
type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// writeCourseError 把服务层错误映射为统一响应
func writeCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrSectionNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrCourseNotPublished):
		util.Error(ctx, 400, err.Error())
	case errors.Is(err, util.ErrAlreadyEnrolled):
		util.Error(ctx, 409, err.Error())
	case errors.Is(err, util.ErrNotEnrolled):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Subtitle    string  `json:"subtitle" binding:"max=200"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"max=100"`
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
	Thumbnail   string  `json:"thumbnail" binding:"max=255"`
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 教师-课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateCourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course := &model.Course{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
		CreatorID:   claims.UserID,
	}
	if req.Price > 0 {
		course.Price = req.Price
	}

	if err := c.CourseService.CreateCourse(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=200"`
	Subtitle    *string  `json:"subtitle" binding:"omitempty,max=200"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,max=100"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Thumbnail   *string  `json:"thumbnail" binding:"omitempty,max=255"`
	Published   *bool    `json:"published"`
}

// UpdateCourse godoc
// @Summary 更新课程
// @Description 部分更新，published 置 true 时记录发布时间
// @Tags 教师-课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body UpdateCourseRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.UpdateCourse(
		util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role,
		service.CourseUpdate{
			Title:       req.Title,
			Subtitle:    req.Subtitle,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Thumbnail:   req.Thumbnail,
			Published:   req.Published,
		})
	if err != nil {
		writeCourseError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 教师-课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.DeleteCourse(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MyCourses godoc
// @Summary 我创建的课程
// @Tags 教师-课程
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/teacher/courses [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courses, err := c.CourseService.ListByCreator(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CourseStudents godoc
// @Summary 课程的选课学生与进度
// @Tags 教师-课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.UserCourse}
// @Failure 403 {object} util.Response
// @Router /api/teacher/courses/{id}/students [get]
func (c *CourseController) CourseStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := c.CourseService.CourseStudents(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// CourseDetail godoc
// @Summary 课程详情（含章节、课时、测验）
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) CourseDetail(ctx *gin.Context) {
	var userID uint
	var role model.UserRole
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
		role = claims.Role
	}

	course, err := c.CourseService.CourseDetail(util.MustParseUint(ctx.Param("id")), userID, role)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

type CreateSectionRequest struct {
	CourseID uint   `json:"courseId" binding:"required"`
	Title    string `json:"title" binding:"required,max=200"`
	Position uint   `json:"position"`
}

// CreateSection godoc
// @Summary 创建章节
// @Tags 教师-课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateSectionRequest true "章节信息"
// @Success 201 {object} util.Response{data=model.Section}
// @Failure 403 {object} util.Response
// @Router /api/teacher/sections [post]
func (c *CourseController) CreateSection(ctx *gin.Context) {
	var req CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	section := &model.Section{Title: req.Title, Position: req.Position, CourseID: req.CourseID}
	if err := c.CourseService.CreateSection(claims.UserID, claims.Role, section); err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

type UpdateSectionRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Position *uint   `json:"position"`
}

// UpdateSection godoc
// @Summary 更新章节
// @Tags 教师-课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Param   body body UpdateSectionRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Section}
// @Router /api/teacher/sections/{id} [put]
func (c *CourseController) UpdateSection(ctx *gin.Context) {
	var req UpdateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	section, err := c.CourseService.UpdateSection(
		util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role, req.Title, req.Position)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// DeleteSection godoc
// @Summary 删除章节
// @Tags 教师-课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/sections/{id} [delete]
func (c *CourseController) DeleteSection(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.DeleteSection(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type CreateLessonRequest struct {
	SectionID uint   `json:"sectionId" binding:"required"`
	Title     string `json:"title" binding:"required,max=200"`
	Content   string `json:"content"`
	Position  uint   `json:"position"`
	VideoURL  string `json:"videoUrl" binding:"omitempty,max=500"`
}

// CreateLesson godoc
// @Summary 创建课时
// @Tags 教师-课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateLessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 403 {object} util.Response
// @Router /api/teacher/lessons [post]
func (c *CourseController) CreateLesson(ctx *gin.Context) {
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson := &model.Lesson{
		SectionID: req.SectionID,
		Title:     req.Title,
		Content:   req.Content,
		Position:  req.Position,
		VideoURL:  req.VideoURL,
	}
	if err := c.CourseService.CreateLesson(claims.UserID, claims.Role, lesson); err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

type UpdateLessonRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Content  *string `json:"content"`
	Position *uint   `json:"position"`
	VideoURL *string `json:"videoUrl" binding:"omitempty,max=500"`
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 教师-课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body UpdateLessonRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/teacher/lessons/{id} [put]
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	var req UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := c.CourseService.UpdateLesson(
		util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role,
		service.LessonUpdate{
			Title:    req.Title,
			Content:  req.Content,
			Position: req.Position,
			VideoURL: req.VideoURL,
		})
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 教师-课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{id} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.DeleteLesson(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
