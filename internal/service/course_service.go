package service

import (
	"context"
	"time"

	"smart_learning_backend/internal/model"
	"smart_learning_backend/internal/repository"
	"smart_learning_backend/internal/util"
	"smart_learning_backend/pkg/logger"

	"go.uber.org/zap"
)

// CourseService 课程 / 章节 / 课时的管理与学生侧访问。
// 所有教师侧写操作都做归属校验：只有课程创建者能改自己的课。
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	SectionRepo    *repository.SectionRepository
	LessonRepo     *repository.LessonRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Content        *ContentService
	Progress       *ProgressService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	sectionRepo *repository.SectionRepository,
	lessonRepo *repository.LessonRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	content *ContentService,
	progress *ProgressService,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		SectionRepo:    sectionRepo,
		LessonRepo:     lessonRepo,
		EnrollmentRepo: enrollmentRepo,
		Content:        content,
		Progress:       progress,
	}
}

// ownedCourse 加载课程并校验归属，admin 放行
func (s *CourseService) ownedCourse(courseID, userID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if course.CreatorID != userID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

func (s *CourseService) CreateCourse(course *model.Course) error {
	return s.CourseRepo.Create(course)
}

type CourseUpdate struct {
	Title       *string
	Subtitle    *string
	Description *string
	Category    *string
	Price       *float64
	Thumbnail   *string
	Published   *bool
}

func (s *CourseService) UpdateCourse(courseID, userID uint, role model.UserRole, update CourseUpdate) (*model.Course, error) {
	course, err := s.ownedCourse(courseID, userID, role)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		course.Title = *update.Title
	}
	if update.Subtitle != nil {
		course.Subtitle = *update.Subtitle
	}
	if update.Description != nil {
		course.Description = *update.Description
	}
	if update.Category != nil {
		course.Category = *update.Category
	}
	if update.Price != nil {
		course.Price = *update.Price
	}
	if update.Thumbnail != nil {
		course.Thumbnail = *update.Thumbnail
	}
	if update.Published != nil && *update.Published != course.Published {
		course.Published = *update.Published
		if course.Published {
			now := time.Now()
			course.PublishedAt = &now
		} else {
			course.PublishedAt = nil
		}
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(courseID, userID uint, role model.UserRole) error {
	if _, err := s.ownedCourse(courseID, userID, role); err != nil {
		return err
	}
	return s.CourseRepo.Delete(courseID)
}

func (s *CourseService) ListPublished(search, category string) ([]model.Course, error) {
	return s.CourseRepo.ListPublished(search, category)
}

func (s *CourseService) ListByCreator(creatorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByCreator(creatorID)
}

// CourseDetail 课程详情。未发布课程只有创建者和 admin 可见。
func (s *CourseService) CourseDetail(courseID, userID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.Published && course.CreatorID != userID && role != model.Admin {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

// ---- 章节 ----

func (s *CourseService) CreateSection(userID uint, role model.UserRole, section *model.Section) error {
	if _, err := s.ownedCourse(section.CourseID, userID, role); err != nil {
		return err
	}
	return s.SectionRepo.Create(section)
}

func (s *CourseService) UpdateSection(sectionID, userID uint, role model.UserRole, title *string, position *uint) (*model.Section, error) {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		return nil, util.ErrSectionNotFound
	}
	if _, err := s.ownedCourse(section.CourseID, userID, role); err != nil {
		return nil, err
	}
	if title != nil {
		section.Title = *title
	}
	if position != nil {
		section.Position = *position
	}
	if err := s.SectionRepo.Update(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *CourseService) DeleteSection(sectionID, userID uint, role model.UserRole) error {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		return util.ErrSectionNotFound
	}
	if _, err := s.ownedCourse(section.CourseID, userID, role); err != nil {
		return err
	}
	return s.SectionRepo.Delete(sectionID)
}

// ---- 课时 ----

func (s *CourseService) CreateLesson(userID uint, role model.UserRole, lesson *model.Lesson) error {
	section, err := s.SectionRepo.FindByID(lesson.SectionID)
	if err != nil {
		return util.ErrSectionNotFound
	}
	if _, err := s.ownedCourse(section.CourseID, userID, role); err != nil {
		return err
	}
	return s.LessonRepo.Create(lesson)
}

type LessonUpdate struct {
	Title    *string
	Content  *string
	Position *uint
	VideoURL *string
}

func (s *CourseService) UpdateLesson(lessonID, userID uint, role model.UserRole, update LessonUpdate) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}
	section, err := s.SectionRepo.FindByID(lesson.SectionID)
	if err != nil {
		return nil, util.ErrSectionNotFound
	}
	if _, err := s.ownedCourse(section.CourseID, userID, role); err != nil {
		return nil, err
	}

	if update.Title != nil {
		lesson.Title = *update.Title
	}
	if update.Content != nil {
		lesson.Content = *update.Content
	}
	if update.Position != nil {
		lesson.Position = *update.Position
	}
	if update.VideoURL != nil {
		lesson.VideoURL = *update.VideoURL
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) DeleteLesson(lessonID, userID uint, role model.UserRole) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return util.ErrLessonNotFound
	}
	section, err := s.SectionRepo.FindByID(lesson.SectionID)
	if err != nil {
		return util.ErrSectionNotFound
	}
	if _, err := s.ownedCourse(section.CourseID, userID, role); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

// ---- 选课与学生侧访问 ----

func (s *CourseService) Enroll(userID, courseID uint) (*model.UserCourse, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.Published {
		return nil, util.ErrCourseNotPublished
	}

	exists, err := s.EnrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyEnrolled
	}

	enrollment := &model.UserCourse{UserID: userID, CourseID: courseID}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *CourseService) MyEnrollments(userID uint) ([]model.UserCourse, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}

// CourseStudents 教师查看选课学生及各自进度
func (s *CourseService) CourseStudents(courseID, userID uint, role model.UserRole) ([]model.UserCourse, error) {
	if _, err := s.ownedCourse(courseID, userID, role); err != nil {
		return nil, err
	}
	return s.EnrollmentRepo.ListByCourse(courseID)
}

// courseIDOfLesson 课时 -> 章节 -> 课程
func (s *CourseService) courseIDOfLesson(lesson *model.Lesson) (uint, error) {
	section, err := s.SectionRepo.FindByID(lesson.SectionID)
	if err != nil {
		return 0, util.ErrSectionNotFound
	}
	return section.CourseID, nil
}

// StudentLesson 学生查看课时：校验选课，成功后推进进度。
// 进度失败只记日志，不挡住内容返回。
func (s *CourseService) StudentLesson(lessonID, userID uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}

	courseID, err := s.courseIDOfLesson(lesson)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	if err := s.Progress.RecordItemVisit(userID, courseID); err != nil {
		logger.Log.Warn("progress update failed",
			zap.Uint("user_id", userID),
			zap.Uint("course_id", courseID),
			zap.Error(err))
	}

	return lesson, nil
}

// SummarizeLesson 学生请求课时摘要，同样要求已选课
func (s *CourseService) SummarizeLesson(ctx context.Context, lessonID, userID uint) (string, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return "", util.ErrLessonNotFound
	}

	courseID, err := s.courseIDOfLesson(lesson)
	if err != nil {
		return "", err
	}

	enrolled, err := s.EnrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return "", err
	}
	if !enrolled {
		return "", util.ErrNotEnrolled
	}

	return s.Content.Summarize(ctx, lesson)
}
