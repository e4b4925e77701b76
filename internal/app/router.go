package app

import (
	"smart_learning_backend/docs"
	"smart_learning_backend/internal/config"
	"smart_learning_backend/internal/middleware"
	"smart_learning_backend/internal/model"
	"smart_learning_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录：游客可浏览，登录的创建者可看到自己未发布的课
		public.GET("/courses", c.student.BrowseCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.CourseDetail)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.Profile)

		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	student := rg.Group("/student")
	student.Use(middleware.RequireRole(model.Student, model.Teacher, model.Admin))
	{
		student.POST("/courses/:id/enroll", c.student.Enroll)
		student.GET("/my-courses", c.student.MyEnrollments)

		student.GET("/lessons/:id", c.student.Lesson)
		student.POST("/lessons/:id/summarize", c.student.SummarizeLesson)

		student.GET("/quizzes/:id", c.student.Quiz)
		student.POST("/quizzes/:id/submit", c.student.SubmitQuiz)
		student.GET("/quizzes/:id/history", c.student.QuizHistoryByQuiz)

		student.GET("/quiz-history", c.student.QuizHistory)
		student.GET("/quiz-attempts/:id", c.student.AttemptDetail)
		student.POST("/quiz-attempts/:id/ai-feedback", c.student.AttemptFeedback)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RequireRole(model.Teacher, model.Admin))
	{
		teacher.GET("/dashboard", c.dashboard.Overview)

		teacher.POST("/courses", c.course.CreateCourse)
		teacher.GET("/courses", c.course.MyCourses)
		teacher.PUT("/courses/:id", c.course.UpdateCourse)
		teacher.DELETE("/courses/:id", c.course.DeleteCourse)
		teacher.GET("/courses/:id/students", c.course.CourseStudents)

		teacher.POST("/sections", c.course.CreateSection)
		teacher.PUT("/sections/:id", c.course.UpdateSection)
		teacher.DELETE("/sections/:id", c.course.DeleteSection)

		teacher.POST("/lessons", c.course.CreateLesson)
		teacher.PUT("/lessons/:id", c.course.UpdateLesson)
		teacher.DELETE("/lessons/:id", c.course.DeleteLesson)

		// AI 生成管线：预览 → 确认入库 / 覆盖旧题
		teacher.POST("/sections/:id/generate-quiz", c.quiz.GenerateQuiz)
		teacher.POST("/sections/:id/quizzes", c.quiz.CreateQuiz)
		teacher.PUT("/quizzes/:id/questions", c.quiz.ReplaceQuestions)

		teacher.GET("/quizzes/:id", c.quiz.QuizDetail)
		teacher.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		teacher.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		teacher.GET("/quizzes/:id/results", c.quiz.QuizResults)
		teacher.GET("/quiz-attempts/:id", c.quiz.AttemptDetail)
		teacher.POST("/quiz-attempts/:id/ai-feedback", c.quiz.AttemptFeedback)
	}
}
