package model

type MarkReason string

const (
	MarkGuess        MarkReason = "GUESS"
	MarkTimePressure MarkReason = "TIME"
	MarkConceptError MarkReason = "CONCEPT"
)

// Answer 一次提交中对某道题的作答。
// SelectedOption 为空代表放弃作答；IsCorrect 在写入时由服务端比对标准答案得出，
// 不信任客户端上报。
type Answer struct {
	BaseModel
	SubmissionID   uint    `gorm:"not null;index:idx_sub_question" json:"submissionId"`
	QuestionID     uint    `gorm:"not null;index:idx_sub_question" json:"questionId"`
	SelectedOption *Option `gorm:"type:enum('A','B','C','D')" json:"selectedOption"`
	IsCorrect      bool    `gorm:"default:false" json:"isCorrect"`

	IsMarked   bool        `gorm:"default:false" json:"isMarked"` // 用户主动标记待复盘
	MarkReason *MarkReason `gorm:"type:enum('GUESS','TIME','CONCEPT')" json:"markReason"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}
