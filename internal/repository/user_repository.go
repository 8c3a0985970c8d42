package repository

import (
	"exam_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) UpdateLastLogin(id uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).
		Update("last_login", time.Now()).Error
}

// Credit 给用户加积分，amount 必须为正数。
// 使用表达式更新避免读改写竞态。
func (r *UserRepository) Credit(tx *gorm.DB, userID uint, amount int) error {
	if amount <= 0 {
		return nil
	}
	return tx.Model(&model.User{}).Where("id = ?", userID).
		Update("reward_points", gorm.Expr("reward_points + ?", amount)).Error
}

// Debit 扣减积分，余额不足时不执行任何变更并返回 gorm.ErrRecordNotFound 以外的标记：
// 通过条件更新保证余额永不为负，RowsAffected 为 0 即余额不足。
func (r *UserRepository) Debit(tx *gorm.DB, userID uint, amount int) (bool, error) {
	if amount <= 0 {
		return true, nil
	}
	result := tx.Model(&model.User{}).
		Where("id = ? AND reward_points >= ?", userID, amount).
		Update("reward_points", gorm.Expr("reward_points - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
