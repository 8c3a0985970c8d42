package model

import "time"

// UnlockedTestCard 解锁记录，存在即代表该用户可开始该试卷。
// 全真模拟的解锁记录在开考时被消耗删除，重考需重新购买。
type UnlockedTestCard struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:uniq_user_test" json:"userId"`
	TestCardID string    `gorm:"size:64;not null;uniqueIndex:uniq_user_test" json:"testCardId"`
	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlockedAt"`
}
