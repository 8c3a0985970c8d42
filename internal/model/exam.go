package model

// Exam 大的考试类别，如"General Knowledge"
// swagger:model
type Exam struct {
	StringIDBase
	Name     string    `gorm:"size:100;not null" json:"name"`
	SubExams []SubExam `gorm:"foreignKey:ExamID" json:"subExams,omitempty"`
}

// SubExam 考试下的子科目，如"History of India"
// swagger:model
type SubExam struct {
	StringIDBase
	ExamID string `gorm:"size:64;index;not null" json:"examId"`
	Name   string `gorm:"size:100;not null" json:"name"`

	TestCards []TestCard `gorm:"foreignKey:SubExamID" json:"testCards,omitempty"`
}
