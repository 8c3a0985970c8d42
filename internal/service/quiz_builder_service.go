package service

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	challengeQuestionCount = 20
	challengeDuration      = 30
	challengeReward        = 5

	weeklyQuizQuestionCount = 25
	weeklyQuizDuration      = 45
	weeklyQuizReward        = 10
)

// QuizBuilderService 动态组卷：
// 个人挑战取自本人复盘队列，每周测验取全体用户错得最多的题。
// 题目以快照方式克隆进新卷，源题后续变动不影响已生成的试卷。
type QuizBuilderService struct {
	DB           *gorm.DB
	TestRepo     *repository.TestCardRepository
	RevisionRepo *repository.RevisionRepository
}

func NewQuizBuilderService(db *gorm.DB, testRepo *repository.TestCardRepository, revisionRepo *repository.RevisionRepository) *QuizBuilderService {
	return &QuizBuilderService{
		DB:           db,
		TestRepo:     testRepo,
		RevisionRepo: revisionRepo,
	}
}

// BuildChallenge 为用户生成一套个人挑战卷：
// 复盘队列中最近的20道不同题目，不足20道时有多少出多少。
func (s *QuizBuilderService) BuildChallenge(userID uint, subExamID string) (*model.TestCard, error) {
	questionIDs, err := s.RevisionRepo.DistinctRecentQuestionIDs(userID, challengeQuestionCount)
	if err != nil {
		return nil, err
	}
	if len(questionIDs) == 0 {
		return nil, util.ErrEmptyRevisionLog
	}

	questions, err := s.TestRepo.FindQuestionsByIDs(questionIDs)
	if err != nil {
		return nil, err
	}

	card := &model.TestCard{
		StringIDBase: model.StringIDBase{
			ID: fmt.Sprintf("challenge_%d_%d", userID, time.Now().Unix()),
		},
		SubExamID:       subExamID,
		Name:            "Challenge: Your Toughest Questions",
		TestType:        model.Challenge,
		DurationMinutes: challengeDuration,
		RewardPoints:    challengeReward,
		IsActive:        true,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.TestRepo.CreateWithQuestions(tx, card, cloneQuestions(questions))
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Challenge generated",
		zap.Uint("userId", userID),
		zap.String("testCardId", card.ID),
		zap.Int("questions", len(questions)))
	return card, nil
}

// BuildWeeklyQuiz 管理端生成每周测验：
// 全体用户复盘最多的25道题（先按进入多少人的队列，再按总次数）。
func (s *QuizBuilderService) BuildWeeklyQuiz(subExamID, name string) (*model.TestCard, error) {
	questionIDs, err := s.RevisionRepo.MostMissedQuestionIDs(weeklyQuizQuestionCount)
	if err != nil {
		return nil, err
	}
	if len(questionIDs) == 0 {
		return nil, util.ErrEmptyRevisionLog
	}

	questions, err := s.TestRepo.FindQuestionsByIDs(questionIDs)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = fmt.Sprintf("Weekly Quiz %s", time.Now().Format("2006-01-02"))
	}

	card := &model.TestCard{
		StringIDBase: model.StringIDBase{
			ID: fmt.Sprintf("weekly_quiz_%d", time.Now().Unix()),
		},
		SubExamID:       subExamID,
		Name:            name,
		TestType:        model.WeeklyQuiz,
		DurationMinutes: weeklyQuizDuration,
		RewardPoints:    weeklyQuizReward,
		IsActive:        true,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.TestRepo.CreateWithQuestions(tx, card, cloneQuestions(questions))
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Weekly quiz generated",
		zap.String("testCardId", card.ID),
		zap.Int("questions", len(questions)))
	return card, nil
}

// cloneQuestions 深拷贝题目，抹掉主键和归属，作为新卷的快照
func cloneQuestions(questions []model.Question) []model.Question {
	clones := make([]model.Question, len(questions))
	for i, q := range questions {
		clone := q
		clone.BaseModel = model.BaseModel{}
		clone.TestCardID = ""
		clones[i] = clone
	}
	return clones
}
