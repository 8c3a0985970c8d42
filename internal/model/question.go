package model

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// Question 单选题，一旦被某次提交引用即视为不可变（修改会破坏历史成绩）
// swagger:model
type Question struct {
	BaseModel
	TestCardID    string `gorm:"size:64;index;not null" json:"testCardId"`
	QuestionText  string `gorm:"type:text;not null" json:"questionText"`
	OptionA       string `gorm:"size:255" json:"optionA"`
	OptionB       string `gorm:"size:255" json:"optionB"`
	OptionC       string `gorm:"size:255" json:"optionC"`
	OptionD       string `gorm:"size:255" json:"optionD"`
	CorrectOption Option `gorm:"type:enum('A','B','C','D')" json:"-"`

	Section       string     `gorm:"size:100;default:'General'" json:"section"`
	Topic         string     `gorm:"size:100" json:"topic"`
	Difficulty    Difficulty `gorm:"type:enum('Easy','Medium','Hard');default:'Medium'" json:"difficulty"`
	PositiveMarks float64    `gorm:"default:1" json:"positiveMarks"`
	NegativeMarks float64    `gorm:"default:0.25" json:"negativeMarks"` // 答错倒扣
}
