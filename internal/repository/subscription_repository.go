package repository

import (
	"exam_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	DB *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

func (r *SubscriptionRepository) ListPlans() ([]model.SubscriptionPlan, error) {
	var plans []model.SubscriptionPlan
	err := r.DB.Order("price asc").Find(&plans).Error
	return plans, err
}

func (r *SubscriptionRepository) FindPlanByID(id uint) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.DB.First(&plan, id).Error
	return &plan, err
}

func (r *SubscriptionRepository) Create(sub *model.UserSubscription) error {
	return r.DB.Create(sub).Error
}

// ActiveForUser 当前生效的订阅，没有则返回 gorm.ErrRecordNotFound
func (r *SubscriptionRepository) ActiveForUser(userID uint, now time.Time) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	err := r.DB.Preload("Plan").
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, now, now).
		Order("end_date desc").
		First(&sub).Error
	return &sub, err
}

func (r *SubscriptionRepository) HasActive(userID uint, now time.Time) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserSubscription{}).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, now, now).
		Count(&count).Error
	return count > 0, err
}
