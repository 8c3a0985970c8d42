package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type UnlockRepository struct {
	DB *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) *UnlockRepository {
	return &UnlockRepository{DB: db}
}

func (r *UnlockRepository) Exists(userID uint, testCardID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UnlockedTestCard{}).
		Where("user_id = ? AND test_card_id = ?", userID, testCardID).
		Count(&count).Error
	return count > 0, err
}

// GetOrCreate 幂等解锁，已存在时返回原记录而不重复创建
func (r *UnlockRepository) GetOrCreate(tx *gorm.DB, userID uint, testCardID string) (*model.UnlockedTestCard, error) {
	var unlock model.UnlockedTestCard
	err := tx.Where(model.UnlockedTestCard{UserID: userID, TestCardID: testCardID}).
		FirstOrCreate(&unlock).Error
	if err != nil {
		return nil, err
	}
	return &unlock, nil
}

// Consume 删除解锁记录（全真模拟开考时消耗），返回是否真的删除了一条
func (r *UnlockRepository) Consume(tx *gorm.DB, userID uint, testCardID string) (bool, error) {
	result := tx.Where("user_id = ? AND test_card_id = ?", userID, testCardID).
		Delete(&model.UnlockedTestCard{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *UnlockRepository) ListByUser(userID uint) ([]model.UnlockedTestCard, error) {
	var unlocks []model.UnlockedTestCard
	err := r.DB.Where("user_id = ?", userID).Order("unlocked_at desc").Find(&unlocks).Error
	return unlocks, err
}
