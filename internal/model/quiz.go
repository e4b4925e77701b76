package model

// Quiz 测验，人工创建或由 AI 生成管线装配
type Quiz struct {
	BaseModel
	Title     string     `gorm:"size:200;not null" json:"title"`
	Position  uint       `gorm:"not null" json:"position"`
	SectionID uint       `gorm:"index;not null" json:"sectionId"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	BaseModel
	QuizID   uint     `gorm:"index;not null" json:"quizId"`
	Text     string   `gorm:"type:text;not null" json:"text"`
	Position uint     `gorm:"not null" json:"position"`
	Choices  []Choice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Choice 选项。生成管线保证每题恰有一个 is_correct=true，
// 人工编辑的题目不作此约束，判分按第一个正确选项处理。
type Choice struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:255;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Choice) TableName() string {
	return "choices"
}
