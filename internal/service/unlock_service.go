package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestCardStatus 试卷卡片加上当前用户的可用状态
type TestCardStatus struct {
	model.TestCard
	Unlocked  bool `json:"unlocked"`
	Attempted bool `json:"attempted"`
}

// UnlockStatus 解锁状态查询结果。
// progression: 科目测试按顺序解锁; purchase: 全真模拟积分购买; special: 挑战/每周测验
type UnlockStatus struct {
	TestCardID  string `json:"testCardId"`
	IsUnlocked  bool   `json:"isUnlocked"`
	UnlockType  string `json:"unlockType"`
	PricePoints int    `json:"pricePoints"`
	UserPoints  int    `json:"userPoints,omitempty"`
	CanAfford   bool   `json:"canAfford,omitempty"`
}

// PurchaseResult 购买成功后的余额与解锁时间
type PurchaseResult struct {
	RemainingPoints int       `json:"remainingPoints"`
	UnlockedAt      time.Time `json:"unlockedAt"`
}

// UnlockService 试卷解锁状态与积分购买
type UnlockService struct {
	DB         *gorm.DB
	TestRepo   *repository.TestCardRepository
	UnlockRepo *repository.UnlockRepository
	SubRepo    *repository.SubmissionRepository
	UserRepo   *repository.UserRepository
}

func NewUnlockService(db *gorm.DB, testRepo *repository.TestCardRepository, unlockRepo *repository.UnlockRepository, subRepo *repository.SubmissionRepository, userRepo *repository.UserRepository) *UnlockService {
	return &UnlockService{
		DB:         db,
		TestRepo:   testRepo,
		UnlockRepo: unlockRepo,
		SubRepo:    subRepo,
		UserRepo:   userRepo,
	}
}

// CanStart 判断用户当前能否开始某套试卷。
// 科目测试：顺序第一套天然解锁，其余需要解锁记录；
// 全真模拟：需要购买产生的解锁记录（开考时消耗）；
// 每周测验：终身一次；挑战：始终可开始。
func (s *UnlockService) CanStart(userID uint, card *model.TestCard) (bool, error) {
	switch card.TestType {
	case model.SubjectWise:
		first, err := s.TestRepo.FirstSubjectTest(card.SubExamID)
		if err == nil && first.ID == card.ID {
			return true, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
		unlocked, err := s.UnlockRepo.Exists(userID, card.ID)
		if err != nil {
			return false, err
		}
		if !unlocked {
			return false, util.ErrTestLocked
		}
		return true, nil

	case model.FullLength:
		unlocked, err := s.UnlockRepo.Exists(userID, card.ID)
		if err != nil {
			return false, err
		}
		if !unlocked {
			return false, util.ErrTestNotPurchased
		}
		return true, nil

	case model.WeeklyQuiz:
		attempted, err := s.SubRepo.ExistsForUserAndTest(userID, card.ID)
		if err != nil {
			return false, err
		}
		if attempted {
			return false, util.ErrQuizAlreadyAttempted
		}
		return true, nil

	default:
		// Challenge
		return true, nil
	}
}

// ListWithStatus 子科目下的试卷列表，带当前用户的解锁/作答状态
func (s *UnlockService) ListWithStatus(userID uint, subExamID string, testType model.TestType) ([]TestCardStatus, error) {
	cards, err := s.TestRepo.ListBySubExam(subExamID, testType)
	if err != nil {
		return nil, err
	}

	result := make([]TestCardStatus, 0, len(cards))
	for i := range cards {
		card := cards[i]
		status := TestCardStatus{TestCard: card}

		canStart, err := s.CanStart(userID, &card)
		if err != nil && !errors.Is(err, util.ErrTestLocked) &&
			!errors.Is(err, util.ErrTestNotPurchased) &&
			!errors.Is(err, util.ErrQuizAlreadyAttempted) {
			return nil, err
		}
		status.Unlocked = canStart

		attempted, err := s.SubRepo.HasCompleted(userID, card.ID)
		if err != nil {
			return nil, err
		}
		status.Attempted = attempted

		result = append(result, status)
	}
	return result, nil
}

// GetWithStatus 单套试卷详情加当前用户状态
func (s *UnlockService) GetWithStatus(userID uint, testCardID string) (*TestCardStatus, error) {
	card, err := s.TestRepo.FindByID(testCardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	status := &TestCardStatus{TestCard: *card}

	canStart, err := s.CanStart(userID, card)
	if err != nil && !errors.Is(err, util.ErrTestLocked) &&
		!errors.Is(err, util.ErrTestNotPurchased) &&
		!errors.Is(err, util.ErrQuizAlreadyAttempted) {
		return nil, err
	}
	status.Unlocked = canStart

	attempted, err := s.SubRepo.HasCompleted(userID, card.ID)
	if err != nil {
		return nil, err
	}
	status.Attempted = attempted
	return status, nil
}

// CheckStatus 解锁状态查询，全真模拟额外返回余额与是否买得起
func (s *UnlockService) CheckStatus(userID uint, testCardID string) (*UnlockStatus, error) {
	card, err := s.TestRepo.FindByID(testCardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	status := &UnlockStatus{TestCardID: card.ID}

	switch card.TestType {
	case model.SubjectWise:
		status.UnlockType = "progression"
		_, err := s.CanStart(userID, card)
		if err != nil && !errors.Is(err, util.ErrTestLocked) {
			return nil, err
		}
		status.IsUnlocked = err == nil

	case model.FullLength:
		status.UnlockType = "purchase"
		status.PricePoints = card.PricePoints
		unlocked, err := s.UnlockRepo.Exists(userID, card.ID)
		if err != nil {
			return nil, err
		}
		status.IsUnlocked = unlocked

		user, err := s.UserRepo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		status.UserPoints = user.RewardPoints
		status.CanAfford = user.RewardPoints >= card.PricePoints

	default:
		// 挑战和每周测验不走解锁，入口约束在开考时校验
		status.UnlockType = "special"
		status.IsUnlocked = true
	}
	return status, nil
}

// Purchase 用积分购买全真模拟的一次考试资格。
// 扣减与解锁在同一事务内，余额不足时整体回滚且余额不变。
func (s *UnlockService) Purchase(userID uint, testCardID string) (*PurchaseResult, error) {
	card, err := s.TestRepo.FindByID(testCardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	if card.TestType != model.FullLength {
		return nil, util.ErrNotFullLengthTest
	}

	unlocked, err := s.UnlockRepo.Exists(userID, card.ID)
	if err != nil {
		return nil, err
	}
	if unlocked {
		return nil, util.ErrAlreadyPurchased
	}

	var result PurchaseResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.UserRepo.Debit(tx, userID, card.PricePoints)
		if err != nil {
			return err
		}
		if !ok {
			user, err := s.UserRepo.FindByID(userID)
			if err != nil {
				return err
			}
			return &util.InsufficientPointsError{
				Required:  card.PricePoints,
				Available: user.RewardPoints,
			}
		}
		unlock, err := s.UnlockRepo.GetOrCreate(tx, userID, card.ID)
		if err != nil {
			return err
		}
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		result = PurchaseResult{
			RemainingPoints: user.RewardPoints,
			UnlockedAt:      unlock.UnlockedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Test purchased",
		zap.Uint("userId", userID),
		zap.String("testCardId", card.ID),
		zap.Int("pricePoints", card.PricePoints))
	return &result, nil
}
