package model

// StudyNote 子科目下的学习笔记
type StudyNote struct {
	BaseModel
	SubExamID string `gorm:"size:64;index;not null" json:"subExamId"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Content   string `gorm:"type:text" json:"content"`
}

// MindMap 思维导图（图片存储在对象存储，记录URL）
type MindMap struct {
	BaseModel
	SubExamID string `gorm:"size:64;index;not null" json:"subExamId"`
	Title     string `gorm:"size:200;not null" json:"title"`
	ImageURL  string `gorm:"size:255" json:"imageUrl"`
}

// Flashcard 双面记忆卡
type Flashcard struct {
	BaseModel
	SubExamID    string `gorm:"size:64;index;not null" json:"subExamId"`
	FrontContent string `gorm:"type:text" json:"frontContent"`
	BackContent  string `gorm:"type:text" json:"backContent"`
}
