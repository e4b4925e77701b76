package repository

import (
	"smart_learning_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.UserCourse) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) Find(userID, courseID uint) (*model.UserCourse, error) {
	var enrollment model.UserCourse
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Exists(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.UserCourse, error) {
	var enrollments []model.UserCourse
	err := r.DB.Where("user_id = ?", userID).
		Preload("Course").
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByCourse(courseID uint) ([]model.UserCourse, error) {
	var enrollments []model.UserCourse
	err := r.DB.Where("course_id = ?", courseID).
		Preload("User").
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// IncrementProgress 单条条件更新完成进度：LEAST 在存储层封顶，
// 并发的课时查看与测验提交不会把值写坏。
func (r *EnrollmentRepository) IncrementProgress(userID, courseID uint, increment float64) error {
	return r.DB.Model(&model.UserCourse{}).
		Where("user_id = ? AND course_id = ? AND progress < 100", userID, courseID).
		Update("progress", gorm.Expr("LEAST(progress + ?, 100)", increment)).Error
}
