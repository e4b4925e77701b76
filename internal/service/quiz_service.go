package service

import (
	"smart_learning_backend/internal/model"
	"smart_learning_backend/internal/repository"
	"smart_learning_backend/internal/util"
)

// QuizService 测验的人工管理与读取。AI 生成走 QuizGenService，
// 这里只负责常规 CRUD 与归属校验。
type QuizService struct {
	QuizRepo       *repository.QuizRepository
	SectionRepo    *repository.SectionRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	sectionRepo *repository.SectionRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *QuizService {
	return &QuizService{
		QuizRepo:       quizRepo,
		SectionRepo:    sectionRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// courseOfSection 章节所属课程
func (s *QuizService) courseOfSection(sectionID uint) (*model.Course, error) {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		return nil, util.ErrSectionNotFound
	}
	course, err := s.CourseRepo.FindByID(section.CourseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

// CheckSectionOwnership 教师对章节所在课程的归属校验，admin 放行
func (s *QuizService) CheckSectionOwnership(sectionID, userID uint, role model.UserRole) error {
	course, err := s.courseOfSection(sectionID)
	if err != nil {
		return err
	}
	if course.CreatorID != userID && role != model.Admin {
		return util.ErrPermissionDenied
	}
	return nil
}

// CheckQuizOwnership 通过测验反查课程做归属校验
func (s *QuizService) CheckQuizOwnership(quizID, userID uint, role model.UserRole) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if err := s.CheckSectionOwnership(quiz.SectionID, userID, role); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) CreateQuiz(userID uint, role model.UserRole, quiz *model.Quiz) error {
	if err := s.CheckSectionOwnership(quiz.SectionID, userID, role); err != nil {
		return err
	}
	return s.QuizRepo.Create(quiz)
}

func (s *QuizService) UpdateQuiz(quizID, userID uint, role model.UserRole, title *string, position *uint) (*model.Quiz, error) {
	quiz, err := s.CheckQuizOwnership(quizID, userID, role)
	if err != nil {
		return nil, err
	}
	if title != nil {
		quiz.Title = *title
	}
	if position != nil {
		quiz.Position = *position
	}
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID, userID uint, role model.UserRole) error {
	if _, err := s.CheckQuizOwnership(quizID, userID, role); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

// TeacherQuizDetail 教师视图，带题目和正确答案标记
func (s *QuizService) TeacherQuizDetail(quizID, userID uint, role model.UserRole) (*model.Quiz, error) {
	if _, err := s.CheckQuizOwnership(quizID, userID, role); err != nil {
		return nil, err
	}
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	return quiz, nil
}

// StudentQuizView 学生答题视图：校验选课，返回前抹掉 is_correct 标记
type StudentQuizView struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	SectionID uint              `json:"sectionId"`
	Questions []StudentQuestion `json:"questions"`
}

type StudentQuestion struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Choices []StudentChoice `json:"choices"`
}

type StudentChoice struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

func (s *QuizService) StudentQuiz(quizID, userID uint) (*StudentQuizView, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	course, err := s.courseOfSection(quiz.SectionID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(userID, course.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	view := &StudentQuizView{
		ID:        quiz.ID,
		Title:     quiz.Title,
		SectionID: quiz.SectionID,
		Questions: make([]StudentQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		sq := StudentQuestion{ID: q.ID, Text: q.Text, Choices: make([]StudentChoice, 0, len(q.Choices))}
		for _, c := range q.Choices {
			sq.Choices = append(sq.Choices, StudentChoice{ID: c.ID, Text: c.Text})
		}
		view.Questions = append(view.Questions, sq)
	}
	return view, nil
}
