package model

import "time"

type RevisionReason string

const (
	RevisionIncorrect     RevisionReason = "INCORRECT"
	RevisionMarkedGuess   RevisionReason = "MARKED_GUESS"
	RevisionMarkedTime    RevisionReason = "MARKED_TIME"
	RevisionMarkedConcept RevisionReason = "MARKED_CONCEPT"
)

// RevisionReasonForMark 标记原因到复盘原因的映射
func RevisionReasonForMark(m MarkReason) (RevisionReason, bool) {
	switch m {
	case MarkGuess:
		return RevisionMarkedGuess, true
	case MarkTimePressure:
		return RevisionMarkedTime, true
	case MarkConceptError:
		return RevisionMarkedConcept, true
	}
	return "", false
}

// RevisionLog 个人错题/标记题复盘队列。
// (user, question, reason, source_test, attempt) 唯一，同一场考试重复录入不产生新条目。
type RevisionLog struct {
	ID                   uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint           `gorm:"not null;uniqueIndex:uniq_revision_entry" json:"userId"`
	QuestionID           uint           `gorm:"not null;uniqueIndex:uniq_revision_entry" json:"questionId"`
	Reason               RevisionReason `gorm:"type:enum('INCORRECT','MARKED_GUESS','MARKED_TIME','MARKED_CONCEPT');size:20;not null;uniqueIndex:uniq_revision_entry" json:"reason"`
	SourceTestCardID     string         `gorm:"size:64;not null;uniqueIndex:uniq_revision_entry" json:"sourceTestCardId"`
	SourceAttemptNumber  int            `gorm:"not null;uniqueIndex:uniq_revision_entry" json:"sourceAttemptNumber"`
	AddedAt              time.Time      `gorm:"autoCreateTime;index" json:"addedAt"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}
