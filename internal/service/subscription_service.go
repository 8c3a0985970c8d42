package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubscriptionService 订阅套餐与用户订阅管理。
// 支付网关不在本服务范围内，Subscribe 假定付款已在外部完成。
type SubscriptionService struct {
	SubscriptionRepo *repository.SubscriptionRepository
}

func NewSubscriptionService(subscriptionRepo *repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{SubscriptionRepo: subscriptionRepo}
}

func (s *SubscriptionService) ListPlans() ([]model.SubscriptionPlan, error) {
	return s.SubscriptionRepo.ListPlans()
}

func (s *SubscriptionService) Subscribe(userID uint, planID uint) (*model.UserSubscription, error) {
	plan, err := s.SubscriptionRepo.FindPlanByID(planID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &model.UserSubscription{
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
	}
	if err := s.SubscriptionRepo.Create(sub); err != nil {
		return nil, err
	}

	logger.Log.Info("Subscription created",
		zap.Uint("userId", userID),
		zap.Uint("planId", plan.ID),
		zap.Time("endDate", sub.EndDate))

	sub.Plan = plan
	return sub, nil
}

// Current 用户当前生效的订阅，没有时返回 nil
func (s *SubscriptionService) Current(userID uint) (*model.UserSubscription, error) {
	sub, err := s.SubscriptionRepo.ActiveForUser(userID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}
