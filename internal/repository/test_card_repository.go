package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type TestCardRepository struct {
	DB *gorm.DB
}

func NewTestCardRepository(db *gorm.DB) *TestCardRepository {
	return &TestCardRepository{DB: db}
}

func (r *TestCardRepository) FindByID(id string) (*model.TestCard, error) {
	var card model.TestCard
	err := r.DB.First(&card, "id = ?", id).Error
	return &card, err
}

func (r *TestCardRepository) FindByIDWithQuestions(id string) (*model.TestCard, error) {
	var card model.TestCard
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id asc")
	}).First(&card, "id = ?", id).Error
	return &card, err
}

func (r *TestCardRepository) ListBySubExam(subExamID string, testType model.TestType) ([]model.TestCard, error) {
	var cards []model.TestCard
	query := r.DB.Where("sub_exam_id = ? AND is_active = ?", subExamID, true)
	if testType != "" {
		query = query.Where("test_type = ?", testType)
	}
	err := query.Order("`order` asc, created_at asc").Find(&cards).Error
	return cards, err
}

// FirstSubjectTest 该子科目下顺序最靠前的科目测试，天然解锁
func (r *TestCardRepository) FirstSubjectTest(subExamID string) (*model.TestCard, error) {
	var card model.TestCard
	err := r.DB.Where("sub_exam_id = ? AND test_type = ? AND is_active = ?",
		subExamID, model.SubjectWise, true).
		Order("`order` asc, created_at asc").
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// NextSubjectTestsAfter 同子科目中顺序紧随其后的 n 套科目测试
func (r *TestCardRepository) NextSubjectTestsAfter(card *model.TestCard, n int) ([]model.TestCard, error) {
	var cards []model.TestCard
	err := r.DB.Where("sub_exam_id = ? AND test_type = ? AND is_active = ? AND `order` > ?",
		card.SubExamID, model.SubjectWise, true, card.Order).
		Order("`order` asc, created_at asc").
		Limit(n).
		Find(&cards).Error
	return cards, err
}

func (r *TestCardRepository) Create(card *model.TestCard) error {
	return r.DB.Create(card).Error
}

func (r *TestCardRepository) CreateWithQuestions(tx *gorm.DB, card *model.TestCard, questions []model.Question) error {
	if err := tx.Create(card).Error; err != nil {
		return err
	}
	for i := range questions {
		questions[i].ID = 0
		questions[i].TestCardID = card.ID
	}
	return tx.Create(&questions).Error
}

func (r *TestCardRepository) CreateQuestions(questions []model.Question) error {
	return r.DB.Create(&questions).Error
}

func (r *TestCardRepository) CountQuestions(testCardID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("test_card_id = ?", testCardID).Count(&count).Error
	return count, err
}

func (r *TestCardRepository) FindQuestionsByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}
