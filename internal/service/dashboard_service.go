package service

import (
	"smart_learning_backend/internal/repository"
)

// DashboardService 教师侧的汇总统计
type DashboardService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewDashboardService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *DashboardService {
	return &DashboardService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

type CourseStats struct {
	CourseID      uint    `json:"courseId"`
	Title         string  `json:"title"`
	Published     bool    `json:"published"`
	StudentCount  int     `json:"studentCount"`
	AvgProgress   float64 `json:"avgProgress"`
	CompletedRate float64 `json:"completedRate"`
}

type TeacherDashboard struct {
	CourseCount  int           `json:"courseCount"`
	StudentTotal int           `json:"studentTotal"`
	CourseStats  []CourseStats `json:"courseStats"`
}

// Overview 课程维度的选课人数、平均进度与完课率
func (s *DashboardService) Overview(teacherID uint) (*TeacherDashboard, error) {
	courses, err := s.CourseRepo.ListByCreator(teacherID)
	if err != nil {
		return nil, err
	}

	dashboard := &TeacherDashboard{
		CourseCount: len(courses),
		CourseStats: make([]CourseStats, 0, len(courses)),
	}

	for _, course := range courses {
		enrollments, err := s.EnrollmentRepo.ListByCourse(course.ID)
		if err != nil {
			return nil, err
		}

		stats := CourseStats{
			CourseID:     course.ID,
			Title:        course.Title,
			Published:    course.Published,
			StudentCount: len(enrollments),
		}

		if len(enrollments) > 0 {
			var sum float64
			completed := 0
			for _, e := range enrollments {
				sum += e.Progress
				if e.Progress >= 100 {
					completed++
				}
			}
			stats.AvgProgress = sum / float64(len(enrollments))
			stats.CompletedRate = float64(completed) / float64(len(enrollments)) * 100
		}

		dashboard.StudentTotal += stats.StudentCount
		dashboard.CourseStats = append(dashboard.CourseStats, stats)
	}

	return dashboard, nil
}
