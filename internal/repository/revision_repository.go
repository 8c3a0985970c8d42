package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type RevisionRepository struct {
	DB *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{DB: db}
}

// GetOrCreate 幂等录入复盘条目，依赖 uniq_revision_entry 的语义：
// 同一 (用户, 题目, 原因, 来源试卷, 第几次作答) 只存在一条。
func (r *RevisionRepository) GetOrCreate(tx *gorm.DB, entry *model.RevisionLog) error {
	var existing model.RevisionLog
	return tx.Where(model.RevisionLog{
		UserID:              entry.UserID,
		QuestionID:          entry.QuestionID,
		Reason:              entry.Reason,
		SourceTestCardID:    entry.SourceTestCardID,
		SourceAttemptNumber: entry.SourceAttemptNumber,
	}).FirstOrCreate(&existing).Error
}

func (r *RevisionRepository) ListByUser(userID uint, reason model.RevisionReason, page, limit int) ([]model.RevisionLog, int64, error) {
	var entries []model.RevisionLog
	var total int64

	query := r.DB.Model(&model.RevisionLog{}).Where("user_id = ?", userID)
	if reason != "" {
		query = query.Where("reason = ?", reason)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Question").
		Order("added_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

// DistinctRecentQuestionIDs 用户复盘队列中最近出现的 n 道不同题目，
// 按该题最近一次入队时间倒序。
func (r *RevisionRepository) DistinctRecentQuestionIDs(userID uint, n int) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.RevisionLog{}).
		Where("user_id = ?", userID).
		Group("question_id").
		Order("MAX(added_at) desc").
		Limit(n).
		Pluck("question_id", &ids).Error
	return ids, err
}

type missedQuestion struct {
	QuestionID uint
	UserCount  int64
	EntryCount int64
}

// MostMissedQuestionIDs 全体用户复盘最多的 n 道题：
// 先按进过多少人的复盘队列排序，再按总条目数排序。
func (r *RevisionRepository) MostMissedQuestionIDs(n int) ([]uint, error) {
	var rows []missedQuestion
	err := r.DB.Model(&model.RevisionLog{}).
		Select("question_id, COUNT(DISTINCT user_id) AS user_count, COUNT(*) AS entry_count").
		Group("question_id").
		Order("user_count desc, entry_count desc").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.QuestionID)
	}
	return ids, nil
}

type ReasonCount struct {
	Reason model.RevisionReason `json:"reason"`
	Count  int64                `json:"count"`
}

func (r *RevisionRepository) CountByReason(userID uint) ([]ReasonCount, error) {
	var rows []ReasonCount
	err := r.DB.Model(&model.RevisionLog{}).
		Select("reason, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("reason").
		Scan(&rows).Error
	return rows, err
}

func (r *RevisionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.RevisionLog{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
