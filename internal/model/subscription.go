package model

import "time"

// SubscriptionPlan 订阅套餐，如"12-Month Access"
type SubscriptionPlan struct {
	BaseModel
	Name         string  `gorm:"size:100;not null" json:"name"`
	Price        float64 `gorm:"not null" json:"price"`
	DurationDays int     `gorm:"default:365" json:"durationDays"`
}

// UserSubscription 用户购买的订阅，EndDate 在创建时按套餐时长计算
type UserSubscription struct {
	BaseModel
	UserID    uint      `gorm:"not null;index" json:"userId"`
	PlanID    uint      `gorm:"not null" json:"planId"`
	StartDate time.Time `gorm:"autoCreateTime" json:"startDate"`
	EndDate   time.Time `gorm:"index" json:"endDate"`

	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (s *UserSubscription) IsActive(now time.Time) bool {
	return s.EndDate.After(now)
}
