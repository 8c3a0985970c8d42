package database

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Exam{},
		&model.SubExam{},
		&model.StudyNote{},
		&model.MindMap{},
		&model.Flashcard{},
		&model.TestCard{},
		&model.Question{},
		&model.UnlockedTestCard{},
		&model.TestSubmission{},
		&model.Answer{},
		&model.RevisionLog{},
		&model.SubscriptionPlan{},
		&model.UserSubscription{},
	)
}

func seedDefaults(db *gorm.DB) {
	// 默认订阅套餐
	var count int64
	db.Model(&model.SubscriptionPlan{}).Count(&count)
	if count == 0 {
		defaultPlans := []model.SubscriptionPlan{
			{Name: "12-Month Access", Price: 299.00, DurationDays: 365},
			{Name: "6-Month Access", Price: 179.00, DurationDays: 182},
		}
		for _, p := range defaultPlans {
			db.Create(&p)
		}
	}
}
