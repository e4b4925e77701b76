package repository

import (
	"smart_learning_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDWithContent 预加载章节及其课时与测验，按 position 排序
func (r *CourseRepository) FindByIDWithContent(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("sections.position") }).
		Preload("Sections.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("lessons.position") }).
		Preload("Sections.Quizzes", func(db *gorm.DB) *gorm.DB { return db.Order("quizzes.position") }).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListPublished(search, category string) ([]model.Course, error) {
	query := r.DB.Where("published = ?", true)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR category LIKE ?", like, like, like)
	}
	if category != "" {
		query = query.Where("category LIKE ?", "%"+category+"%")
	}

	var courses []model.Course
	err := query.Order("published_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByCreator(creatorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

// CountItems 课程内课时与测验的总数，进度按此均分
func (r *CourseRepository) CountItems(courseID uint) (int64, error) {
	var lessons int64
	err := r.DB.Model(&model.Lesson{}).
		Joins("JOIN sections ON sections.id = lessons.section_id").
		Where("sections.course_id = ?", courseID).
		Count(&lessons).Error
	if err != nil {
		return 0, err
	}

	var quizzes int64
	err = r.DB.Model(&model.Quiz{}).
		Joins("JOIN sections ON sections.id = quizzes.section_id").
		Where("sections.course_id = ?", courseID).
		Count(&quizzes).Error
	if err != nil {
		return 0, err
	}

	return lessons + quizzes, nil
}
