package model

import "time"

// QuizAttempt 一次判分记录，只增不改：重复提交生成新记录
type QuizAttempt struct {
	BaseModel
	UserID       uint            `gorm:"index;not null" json:"userId"`
	QuizID       uint            `gorm:"index;not null" json:"quizId"`
	Score        float64         `gorm:"not null" json:"score"` // 0-10 分制，保留两位小数
	CorrectCount int             `gorm:"not null" json:"correctCount"`
	TotalCount   int             `gorm:"not null" json:"totalCount"`
	Answers      map[string]uint `gorm:"serializer:json" json:"answers"` // question_id -> choice_id
	SubmittedAt  time.Time       `gorm:"autoCreateTime" json:"submittedAt"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Quiz         *Quiz           `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
