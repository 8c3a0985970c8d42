package service

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/pkg/logger"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 测试用SQLite建表语句。生产走AutoMigrate(MySQL)，
// 这里手写DDL避开方言差异，列名与模型保持一致。
var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL DEFAULT '',
		role TEXT DEFAULT 'student',
		reward_points INTEGER DEFAULT 0,
		language TEXT DEFAULT 'en',
		disabled BOOLEAN DEFAULT 0,
		last_login DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE exams (
		id TEXT PRIMARY KEY,
		created_at DATETIME, updated_at DATETIME,
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE sub_exams (
		id TEXT PRIMARY KEY,
		created_at DATETIME, updated_at DATETIME,
		exam_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE test_cards (
		id TEXT PRIMARY KEY,
		created_at DATETIME, updated_at DATETIME,
		sub_exam_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		test_type TEXT DEFAULT 'SUBJECT',
		` + "`order`" + ` INTEGER DEFAULT 1,
		duration_minutes INTEGER DEFAULT 60,
		price_points INTEGER DEFAULT 0,
		reward_points INTEGER DEFAULT 0,
		is_active BOOLEAN DEFAULT 1
	)`,
	`CREATE TABLE questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		test_card_id TEXT NOT NULL DEFAULT '',
		question_text TEXT NOT NULL DEFAULT '',
		option_a TEXT DEFAULT '', option_b TEXT DEFAULT '',
		option_c TEXT DEFAULT '', option_d TEXT DEFAULT '',
		correct_option TEXT DEFAULT '',
		section TEXT DEFAULT 'General',
		topic TEXT DEFAULT '',
		difficulty TEXT DEFAULT 'Medium',
		positive_marks REAL DEFAULT 1,
		negative_marks REAL DEFAULT 0.25
	)`,
	`CREATE TABLE unlocked_test_cards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		test_card_id TEXT NOT NULL,
		unlocked_at DATETIME,
		UNIQUE(user_id, test_card_id)
	)`,
	`CREATE TABLE test_submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL,
		test_card_id TEXT NOT NULL,
		attempt_number INTEGER DEFAULT 1,
		score REAL DEFAULT 0,
		percentage REAL DEFAULT 0,
		reward_points_earned INTEGER DEFAULT 0,
		status TEXT DEFAULT 'in_progress',
		started_at DATETIME,
		finished_at DATETIME
	)`,
	`CREATE TABLE answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		submission_id INTEGER NOT NULL,
		question_id INTEGER NOT NULL,
		selected_option TEXT,
		is_correct BOOLEAN DEFAULT 0,
		is_marked BOOLEAN DEFAULT 0,
		mark_reason TEXT
	)`,
	`CREATE TABLE revision_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		question_id INTEGER NOT NULL,
		reason TEXT NOT NULL,
		source_test_card_id TEXT NOT NULL,
		source_attempt_number INTEGER NOT NULL,
		added_at DATETIME,
		UNIQUE(user_id, question_id, reason, source_test_card_id, source_attempt_number)
	)`,
	`CREATE TABLE subscription_plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		name TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		duration_days INTEGER DEFAULT 365
	)`,
	`CREATE TABLE user_subscriptions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL,
		plan_id INTEGER NOT NULL,
		start_date DATETIME,
		end_date DATETIME
	)`,
}

func init() {
	logger.InitLogger(&config.Config{Server: config.ServerConfig{Mode: "release"}})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// testEnv 组装一套走真实仓储的服务
type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	exams       *repository.ExamRepository
	tests       *repository.TestCardRepository
	unlocks     *repository.UnlockRepository
	submissions *repository.SubmissionRepository
	revisions   *repository.RevisionRepository

	unlockSvc   *UnlockService
	submitSvc   *SubmissionService
	builderSvc  *QuizBuilderService
	revisionSvc *RevisionService
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)

	env := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		exams:       repository.NewExamRepository(db),
		tests:       repository.NewTestCardRepository(db),
		unlocks:     repository.NewUnlockRepository(db),
		submissions: repository.NewSubmissionRepository(db),
		revisions:   repository.NewRevisionRepository(db),
	}
	env.unlockSvc = NewUnlockService(db, env.tests, env.unlocks, env.submissions, env.users)
	env.submitSvc = NewSubmissionService(db, env.tests, env.submissions, env.unlocks, env.users, env.revisions, env.unlockSvc)
	env.builderSvc = NewQuizBuilderService(db, env.tests, env.revisions)
	env.revisionSvc = NewRevisionService(env.revisions)
	return env
}

func (e *testEnv) createUser(t *testing.T, points int) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test Student",
		Email:        fmt.Sprintf("student%d@example.com", points),
		Password:     "hashed",
		Role:         model.Student,
		RewardPoints: points,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createCard(t *testing.T, id string, testType model.TestType, order, price, reward int) *model.TestCard {
	t.Helper()
	card := &model.TestCard{
		StringIDBase: model.StringIDBase{ID: id},
		SubExamID:    "sub_exam_1",
		Name:         "Test " + id,
		TestType:     testType,
		Order:        order,
		PricePoints:  price,
		RewardPoints: reward,
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(card).Error)
	return card
}

// createQuestions 全部题目同分值，正确答案都是A
func (e *testEnv) createQuestions(t *testing.T, cardID string, n int, positive, negative float64) []model.Question {
	t.Helper()
	questions := make([]model.Question, n)
	for i := 0; i < n; i++ {
		questions[i] = model.Question{
			TestCardID:    cardID,
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			OptionA:       "right",
			OptionB:       "wrong",
			OptionC:       "wrong",
			OptionD:       "wrong",
			CorrectOption: model.OptionA,
			Section:       "General",
			Difficulty:    model.Medium,
			PositiveMarks: positive,
			NegativeMarks: negative,
		}
	}
	require.NoError(t, e.db.Create(&questions).Error)
	return questions
}

func (e *testEnv) userPoints(t *testing.T, userID uint) int {
	t.Helper()
	var user model.User
	require.NoError(t, e.db.First(&user, userID).Error)
	return user.RewardPoints
}

// answerSheet 前correct道选A（对），接着incorrect道选B（错），其余不答
func answerSheet(questions []model.Question, correct, incorrect int) []SubmittedAnswer {
	a := model.OptionA
	b := model.OptionB
	answers := make([]SubmittedAnswer, 0, correct+incorrect)
	for i := 0; i < correct && i < len(questions); i++ {
		answers = append(answers, SubmittedAnswer{QuestionID: questions[i].ID, SelectedOption: &a})
	}
	for i := correct; i < correct+incorrect && i < len(questions); i++ {
		answers = append(answers, SubmittedAnswer{QuestionID: questions[i].ID, SelectedOption: &b})
	}
	return answers
}
