package repository

import (
	"exam_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(tx *gorm.DB, submission *model.TestSubmission) error {
	return tx.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.TestSubmission, error) {
	var submission model.TestSubmission
	err := r.DB.Preload("TestCard").First(&submission, id).Error
	return &submission, err
}

func (r *SubmissionRepository) FindByIDWithAnswers(id uint) (*model.TestSubmission, error) {
	var submission model.TestSubmission
	err := r.DB.Preload("TestCard").
		Preload("Answers").
		Preload("Answers.Question").
		First(&submission, id).Error
	return &submission, err
}

// CountByUserAndTest 此前的答卷次数（不限状态），用于计算 attempt_number
func (r *SubmissionRepository) CountByUserAndTest(tx *gorm.DB, userID uint, testCardID string) (int64, error) {
	var count int64
	err := tx.Model(&model.TestSubmission{}).
		Where("user_id = ? AND test_card_id = ?", userID, testCardID).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) ExistsForUserAndTest(userID uint, testCardID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.TestSubmission{}).
		Where("user_id = ? AND test_card_id = ?", userID, testCardID).
		Count(&count).Error
	return count > 0, err
}

func (r *SubmissionRepository) HasCompleted(userID uint, testCardID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.TestSubmission{}).
		Where("user_id = ? AND test_card_id = ? AND status = ?",
			userID, testCardID, model.SubmissionCompleted).
		Count(&count).Error
	return count > 0, err
}

// ClaimCompletion 条件更新抢占完卷资格：只有 in_progress 状态能被本次提交声明，
// RowsAffected 为 0 说明已被并发提交抢先完卷。
func (r *SubmissionRepository) ClaimCompletion(tx *gorm.DB, submissionID uint) (bool, error) {
	result := tx.Model(&model.TestSubmission{}).
		Where("id = ? AND status = ?", submissionID, model.SubmissionInProgress).
		Update("status", model.SubmissionCompleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SubmissionRepository) UpdateResult(tx *gorm.DB, submissionID uint, score, percentage float64, rewardPoints int, finishedAt time.Time) error {
	return tx.Model(&model.TestSubmission{}).
		Where("id = ?", submissionID).
		Updates(map[string]interface{}{
			"score":                score,
			"percentage":           percentage,
			"reward_points_earned": rewardPoints,
			"finished_at":          finishedAt,
		}).Error
}

func (r *SubmissionRepository) CreateAnswers(tx *gorm.DB, answers []model.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return tx.Create(&answers).Error
}

func (r *SubmissionRepository) FindAnswer(tx *gorm.DB, submissionID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := tx.Where("submission_id = ? AND question_id = ?", submissionID, questionID).
		First(&answer).Error
	return &answer, err
}

func (r *SubmissionRepository) UpdateAnswerMark(tx *gorm.DB, answerID uint, reason model.MarkReason) error {
	return tx.Model(&model.Answer{}).
		Where("id = ?", answerID).
		Updates(map[string]interface{}{
			"is_marked":   true,
			"mark_reason": reason,
		}).Error
}

func (r *SubmissionRepository) ListByUser(userID uint, page, limit int) ([]model.TestSubmission, int64, error) {
	var submissions []model.TestSubmission
	var total int64

	query := r.DB.Model(&model.TestSubmission{}).
		Where("user_id = ? AND status = ?", userID, model.SubmissionCompleted)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("TestCard").
		Order("started_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	return submissions, total, err
}

// ListCompletedByUser 不分页取全部完卷记录，供统计分析使用
func (r *SubmissionRepository) ListCompletedByUser(userID uint) ([]model.TestSubmission, error) {
	var submissions []model.TestSubmission
	err := r.DB.Preload("TestCard").
		Where("user_id = ? AND status = ?", userID, model.SubmissionCompleted).
		Order("started_at asc").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) ListAnswersForUser(userID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Preload("Question").
		Joins("JOIN test_submissions ON test_submissions.id = answers.submission_id").
		Where("test_submissions.user_id = ? AND test_submissions.status = ?",
			userID, model.SubmissionCompleted).
		Find(&answers).Error
	return answers, err
}
