package model

import "time"

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionCompleted  SubmissionStatus = "completed" // 终态，不再变更
)

// TestSubmission 一次完整的答卷记录，attempt_number 按 (user, test) 递增从1开始
// swagger:model
type TestSubmission struct {
	BaseModel
	UserID             uint             `gorm:"not null;index:idx_user_test" json:"userId"`
	TestCardID         string           `gorm:"size:64;not null;index:idx_user_test" json:"testCardId"`
	AttemptNumber      int              `gorm:"default:1" json:"attemptNumber"`
	Score              float64          `gorm:"default:0" json:"score"`
	Percentage         float64          `gorm:"default:0" json:"percentage"` // 0-100，完卷时一次性计算，之后不再变动
	RewardPointsEarned int              `gorm:"default:0" json:"rewardPointsEarned"`
	Status             SubmissionStatus `gorm:"type:enum('in_progress','completed');default:'in_progress'" json:"status"`
	StartedAt          time.Time        `gorm:"autoCreateTime" json:"startedAt"`
	FinishedAt         *time.Time       `json:"finishedAt"`

	TestCard *TestCard `gorm:"foreignKey:TestCardID" json:"testCard,omitempty"`
	Answers  []Answer  `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
}
