package model

import "time"

// Course 课程，由教师创建，按 Section 组织内容
type Course struct {
	BaseModel
	Title       string     `gorm:"size:200;unique;not null" json:"title"`
	Subtitle    string     `gorm:"size:200" json:"subtitle"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:100" json:"category"`
	Price       float64    `gorm:"type:decimal(6,2);default:11.99" json:"price"`
	Thumbnail   string     `gorm:"size:255" json:"thumbnail"`
	Published   bool       `gorm:"default:false" json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatorID   uint       `gorm:"index" json:"creatorId"`
	Sections    []Section  `gorm:"foreignKey:CourseID" json:"sections,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Section 章节，按 position 排序，包含课时与测验
type Section struct {
	BaseModel
	Title    string   `gorm:"size:200;not null" json:"title"`
	Position uint     `gorm:"not null" json:"position"`
	CourseID uint     `gorm:"index;not null" json:"courseId"`
	Lessons  []Lesson `gorm:"foreignKey:SectionID" json:"lessons,omitempty"`
	Quizzes  []Quiz   `gorm:"foreignKey:SectionID" json:"quizzes,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}

// Lesson 课时，正文可为空，video_url 指向外部视频
type Lesson struct {
	BaseModel
	Title     string `gorm:"size:200;not null" json:"title"`
	Content   string `gorm:"type:text" json:"content"`
	Position  uint   `gorm:"not null" json:"position"`
	VideoURL  string `gorm:"size:500" json:"videoUrl"`
	SectionID uint   `gorm:"index;not null" json:"sectionId"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// UserCourse 选课记录，progress 为 0-100 的课程完成百分比，只增不减
type UserCourse struct {
	BaseModel
	UserID     uint      `gorm:"index;not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID   uint      `gorm:"index;not null;uniqueIndex:idx_user_course" json:"courseId"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolledAt"`
	Progress   float64   `gorm:"default:0" json:"progress"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course     *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (UserCourse) TableName() string {
	return "user_courses"
}
