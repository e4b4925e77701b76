package repository

import (
	"smart_learning_backend/internal/model"

	"gorm.io/gorm"
)

type SectionRepository struct {
	DB *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: db}
}

func (r *SectionRepository) Create(section *model.Section) error {
	return r.DB.Create(section).Error
}

func (r *SectionRepository) Update(section *model.Section) error {
	return r.DB.Save(section).Error
}

func (r *SectionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Section{}, id).Error
}

func (r *SectionRepository) FindByID(id uint) (*model.Section, error) {
	var section model.Section
	if err := r.DB.First(&section, id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// FindByIDWithLessons 预加载课时，供内容聚合使用
func (r *SectionRepository) FindByIDWithLessons(id uint) (*model.Section, error) {
	var section model.Section
	err := r.DB.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("lessons.position") }).
		First(&section, id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *SectionRepository) ListByCourse(courseID uint) ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("course_id = ?", courseID).Order("position").Find(&sections).Error
	return sections, err
}
