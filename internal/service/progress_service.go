package service

import (
	"smart_learning_backend/internal/repository"
)

// ProgressService 课程进度推进。每访问一个课时或提交一次测验，
// 进度按 100/课程条目总数 递增，封顶 100。写入用条件 UPDATE 完成，
// 并发提交不会把进度推过 100。
type ProgressService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewProgressService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *ProgressService {
	return &ProgressService{CourseRepo: courseRepo, EnrollmentRepo: enrollmentRepo}
}

// ProgressIncrement 单个条目对应的进度增量，条目数为 0 时返回 0
func ProgressIncrement(totalItems int64) float64 {
	if totalItems <= 0 {
		return 0
	}
	return 100 / float64(totalItems)
}

// RecordItemVisit 记一次条目访问。未选课或课程没有条目时静默跳过。
func (s *ProgressService) RecordItemVisit(userID, courseID uint) error {
	enrolled, err := s.EnrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return nil
	}

	total, err := s.CourseRepo.CountItems(courseID)
	if err != nil {
		return err
	}

	increment := ProgressIncrement(total)
	if increment == 0 {
		return nil
	}

	return s.EnrollmentRepo.IncrementProgress(userID, courseID, increment)
}
