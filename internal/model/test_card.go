package model

type TestType string

const (
	SubjectWise TestType = "SUBJECT"
	FullLength  TestType = "FULL"
	Challenge   TestType = "CHALLENGE"
	WeeklyQuiz  TestType = "QUIZ"
)

// TestCard 一套试卷：科目测试、全真模拟、挑战或每周测验
// swagger:model
type TestCard struct {
	StringIDBase
	SubExamID       string   `gorm:"size:64;index;not null" json:"subExamId"`
	Name            string   `gorm:"size:100;not null" json:"name"`
	TestType        TestType `gorm:"type:enum('SUBJECT','FULL','CHALLENGE','QUIZ');default:'SUBJECT';index" json:"testType"`
	Order           int      `gorm:"default:1" json:"order"` // 科目测试的解锁顺序
	DurationMinutes int      `gorm:"default:60" json:"durationMinutes"`
	PricePoints     int      `gorm:"default:0" json:"pricePoints"`  // 解锁全真模拟所需积分
	RewardPoints    int      `gorm:"default:0" json:"rewardPoints"` // 挑战/每周测验完成后的固定积分奖励
	IsActive        bool     `gorm:"default:true" json:"isActive"`

	Questions []Question `gorm:"foreignKey:TestCardID" json:"questions,omitempty"`
}
