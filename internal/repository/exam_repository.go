package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) ListExams() ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Order("created_at asc").Find(&exams).Error
	return exams, err
}

// ListExamsWithSubjectTests 只返回旗下至少有一套科目测试的考试类别
func (r *ExamRepository) ListExamsWithSubjectTests() ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Distinct("exams.*").
		Joins("JOIN sub_exams ON sub_exams.exam_id = exams.id").
		Joins("JOIN test_cards ON test_cards.sub_exam_id = sub_exams.id AND test_cards.test_type = ?", model.SubjectWise).
		Order("exams.created_at asc").
		Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) FindExamByID(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Preload("SubExams").First(&exam, "id = ?", id).Error
	return &exam, err
}

func (r *ExamRepository) ListSubExams(examID string) ([]model.SubExam, error) {
	var subExams []model.SubExam
	err := r.DB.Where("exam_id = ?", examID).Order("created_at asc").Find(&subExams).Error
	return subExams, err
}

func (r *ExamRepository) FindSubExamByID(id string) (*model.SubExam, error) {
	var subExam model.SubExam
	err := r.DB.First(&subExam, "id = ?", id).Error
	return &subExam, err
}

// ListSubExamsWithFullLength 有全真模拟的子科目，每个只带自己的全真模拟试卷
func (r *ExamRepository) ListSubExamsWithFullLength() ([]model.SubExam, error) {
	var subExams []model.SubExam
	err := r.DB.Distinct("sub_exams.*").
		Joins("JOIN test_cards ON test_cards.sub_exam_id = sub_exams.id AND test_cards.test_type = ?", model.FullLength).
		Preload("TestCards", "test_type = ?", model.FullLength).
		Order("sub_exams.created_at asc").
		Find(&subExams).Error
	return subExams, err
}

// FindSubExamsByIDs 批量取子科目，用于统计时补全名称
func (r *ExamRepository) FindSubExamsByIDs(ids []string) ([]model.SubExam, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var subExams []model.SubExam
	err := r.DB.Where("id IN ?", ids).Find(&subExams).Error
	return subExams, err
}

func (r *ExamRepository) CreateExam(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) CreateSubExam(subExam *model.SubExam) error {
	return r.DB.Create(subExam).Error
}
