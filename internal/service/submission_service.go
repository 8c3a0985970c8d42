package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"
	"exam_prep_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 科目测试按成绩分档：奖励积分与向后解锁的套数
const (
	tierGoldPercent   = 90.0
	tierSilverPercent = 85.0
	tierBronzePercent = 80.0

	tierGoldReward   = 10
	tierSilverReward = 7
	tierBronzeReward = 5

	tierGoldUnlocks   = 4
	tierSilverUnlocks = 3
	tierBronzeUnlocks = 2
)

// SubmittedAnswer 客户端上报的单题作答，只信任选了什么，不信任对错。
// IsMarked 表示考生答题时标记了没把握，原因在交卷后第二步补报
type SubmittedAnswer struct {
	QuestionID     uint          `json:"questionId" binding:"required"`
	SelectedOption *model.Option `json:"selectedOption"`
	IsMarked       bool          `json:"isMarked"`
}

// MarkedQuestion 完卷后补报的标记题目
type MarkedQuestion struct {
	QuestionID uint             `json:"questionId" binding:"required"`
	Reason     model.MarkReason `json:"reason" binding:"required"`
}

// StartResult 开考返回：答卷记录和试题（不含标准答案）
type StartResult struct {
	Submission *model.TestSubmission `json:"submission"`
	Questions  []model.Question      `json:"questions"`
}

// ReviewQuestion 交卷时被标记、等待补报原因的题目
type ReviewQuestion struct {
	QuestionID   uint   `json:"questionId"`
	QuestionText string `json:"questionText"`
}

// SubmitResult 完卷返回的成绩单。
// RequiresMarkReview 为 true 时前端需引导用户补报标记原因
type SubmitResult struct {
	SubmissionID       uint             `json:"submissionId"`
	AttemptNumber      int              `json:"attemptNumber"`
	Score              float64          `json:"score"`
	Percentage         float64          `json:"percentage"`
	RewardPointsEarned int              `json:"rewardPointsEarned"`
	TotalQuestions     int              `json:"totalQuestions"`
	CorrectCount       int              `json:"correctCount"`
	IncorrectCount     int              `json:"incorrectCount"`
	UnansweredCount    int              `json:"unansweredCount"`
	TestsUnlocked      int              `json:"testsUnlocked"`
	RequiresMarkReview bool             `json:"requiresMarkReview"`
	MarkedQuestions    []ReviewQuestion `json:"markedQuestions,omitempty"`
}

// SectionPerformance 单个大题/板块的答题表现
type SectionPerformance struct {
	Section        string  `json:"section"`
	TotalQuestions int     `json:"totalQuestions"`
	CorrectCount   int     `json:"correctCount"`
	Accuracy       float64 `json:"accuracy"`
}

// SubmissionService 答卷全流程：开考、判分、标记复盘、成绩查询
type SubmissionService struct {
	DB           *gorm.DB
	TestRepo     *repository.TestCardRepository
	SubRepo      *repository.SubmissionRepository
	UnlockRepo   *repository.UnlockRepository
	UserRepo     *repository.UserRepository
	RevisionRepo *repository.RevisionRepository
	Unlocks      *UnlockService
}

func NewSubmissionService(
	db *gorm.DB,
	testRepo *repository.TestCardRepository,
	subRepo *repository.SubmissionRepository,
	unlockRepo *repository.UnlockRepository,
	userRepo *repository.UserRepository,
	revisionRepo *repository.RevisionRepository,
	unlocks *UnlockService,
) *SubmissionService {
	return &SubmissionService{
		DB:           db,
		TestRepo:     testRepo,
		SubRepo:      subRepo,
		UnlockRepo:   unlockRepo,
		UserRepo:     userRepo,
		RevisionRepo: revisionRepo,
		Unlocks:      unlocks,
	}
}

// StartTest 开考：校验准入条件，创建 in_progress 答卷并下发试题。
// 全真模拟的解锁记录在同一事务内被消耗，重考需重新购买。
func (s *SubmissionService) StartTest(userID uint, testCardID string) (*StartResult, error) {
	card, err := s.TestRepo.FindByIDWithQuestions(testCardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	if !card.IsActive {
		return nil, util.ErrTestNotFound
	}

	if card.TestType == model.SubjectWise {
		if _, err := s.Unlocks.CanStart(userID, card); err != nil {
			return nil, err
		}
	}

	var submission *model.TestSubmission
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if card.TestType == model.FullLength {
			consumed, err := s.UnlockRepo.Consume(tx, userID, card.ID)
			if err != nil {
				return err
			}
			if !consumed {
				return util.ErrTestNotPurchased
			}
		}

		count, err := s.SubRepo.CountByUserAndTest(tx, userID, card.ID)
		if err != nil {
			return err
		}

		// 每周测验终身一次，用事务内的历史次数校验，不在事务外预查
		if card.TestType == model.WeeklyQuiz && count > 0 {
			return util.ErrQuizAlreadyAttempted
		}

		submission = &model.TestSubmission{
			UserID:        userID,
			TestCardID:    card.ID,
			AttemptNumber: int(count) + 1,
			Status:        model.SubmissionInProgress,
		}
		return s.SubRepo.Create(tx, submission)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Test started",
		zap.Uint("userId", userID),
		zap.String("testCardId", card.ID),
		zap.Int("attempt", submission.AttemptNumber))

	return &StartResult{
		Submission: submission,
		Questions:  card.Questions,
	}, nil
}

// SubmitTest 完卷判分。整个流程在一个事务内完成：
// 抢占 completed 状态、逐题判分、错题入复盘队列、计算奖励积分并入账、
// 高分档向后解锁后续科目测试。并发重复提交只有一个能成功。
func (s *SubmissionService) SubmitTest(userID uint, submissionID uint, answers []SubmittedAnswer) (*SubmitResult, error) {
	submission, err := s.SubRepo.FindByID(submissionID)
	if err != nil || submission.UserID != userID {
		return nil, util.ErrSubmissionNotFound
	}
	if submission.Status == model.SubmissionCompleted {
		return nil, util.ErrTestAlreadySubmitted
	}

	card, err := s.TestRepo.FindByIDWithQuestions(submission.TestCardID)
	if err != nil {
		return nil, err
	}

	questionsByID := make(map[uint]*model.Question, len(card.Questions))
	for i := range card.Questions {
		questionsByID[card.Questions[i].ID] = &card.Questions[i]
	}

	var result *SubmitResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		claimed, err := s.SubRepo.ClaimCompletion(tx, submission.ID)
		if err != nil {
			return err
		}
		if !claimed {
			return util.ErrTestAlreadySubmitted
		}

		var score float64
		var correct, incorrect int
		answerRows := make([]model.Answer, 0, len(answers))
		seen := make(map[uint]bool, len(answers))
		markedForReview := make([]ReviewQuestion, 0)

		for _, a := range answers {
			question, ok := questionsByID[a.QuestionID]
			if !ok || seen[a.QuestionID] {
				// 不属于本卷的题目或重复上报，静默忽略
				continue
			}
			seen[a.QuestionID] = true

			row := model.Answer{
				SubmissionID:   submission.ID,
				QuestionID:     question.ID,
				SelectedOption: a.SelectedOption,
				IsMarked:       a.IsMarked,
			}
			if a.IsMarked {
				markedForReview = append(markedForReview, ReviewQuestion{
					QuestionID:   question.ID,
					QuestionText: question.QuestionText,
				})
			}

			if a.SelectedOption != nil {
				if *a.SelectedOption == question.CorrectOption {
					row.IsCorrect = true
					score += question.PositiveMarks
					correct++
				} else {
					score -= question.NegativeMarks
					incorrect++

					entry := &model.RevisionLog{
						UserID:              userID,
						QuestionID:          question.ID,
						Reason:              model.RevisionIncorrect,
						SourceTestCardID:    card.ID,
						SourceAttemptNumber: submission.AttemptNumber,
					}
					if err := s.RevisionRepo.GetOrCreate(tx, entry); err != nil {
						return err
					}
				}
			}

			answerRows = append(answerRows, row)
		}

		if score < 0 {
			score = 0
		}

		if err := s.SubRepo.CreateAnswers(tx, answerRows); err != nil {
			return err
		}

		percentage := 0.0
		if len(card.Questions) > 0 {
			// 满分 = 题数 × 第一题分值，整卷默认同分值
			maxScore := float64(len(card.Questions)) * card.Questions[0].PositiveMarks
			if maxScore > 0 {
				percentage = score / maxScore * 100
			}
		}

		reward := rewardFor(card, percentage)
		if reward > 0 {
			if err := s.UserRepo.Credit(tx, userID, reward); err != nil {
				return err
			}
		}

		unlocked := 0
		if card.TestType == model.SubjectWise {
			fanOut := unlockFanOut(percentage)
			if fanOut > 0 {
				nextCards, err := s.TestRepo.NextSubjectTestsAfter(card, fanOut)
				if err != nil {
					return err
				}
				for _, next := range nextCards {
					if _, err := s.UnlockRepo.GetOrCreate(tx, userID, next.ID); err != nil {
						return err
					}
					unlocked++
				}
			}
		}

		now := time.Now()
		if err := s.SubRepo.UpdateResult(tx, submission.ID, score, percentage, reward, now); err != nil {
			return err
		}

		result = &SubmitResult{
			SubmissionID:       submission.ID,
			AttemptNumber:      submission.AttemptNumber,
			Score:              score,
			Percentage:         percentage,
			RewardPointsEarned: reward,
			TotalQuestions:     len(card.Questions),
			CorrectCount:       correct,
			IncorrectCount:     incorrect,
			UnansweredCount:    len(card.Questions) - correct - incorrect,
			TestsUnlocked:      unlocked,
			RequiresMarkReview: len(markedForReview) > 0,
			MarkedQuestions:    markedForReview,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(string(card.TestType)).Inc()
	logger.Log.Info("Test submitted",
		zap.Uint("userId", userID),
		zap.Uint("submissionId", submission.ID),
		zap.Float64("score", result.Score),
		zap.Float64("percentage", result.Percentage),
		zap.Int("rewardPoints", result.RewardPointsEarned))

	return result, nil
}

// rewardFor 按试卷类型计算积分奖励：
// 科目测试按成绩分档，挑战与每周测验为卡片上的固定值，全真模拟不奖励
func rewardFor(card *model.TestCard, percentage float64) int {
	switch card.TestType {
	case model.SubjectWise:
		switch {
		case percentage >= tierGoldPercent:
			return tierGoldReward
		case percentage >= tierSilverPercent:
			return tierSilverReward
		case percentage >= tierBronzePercent:
			return tierBronzeReward
		}
		return 0
	case model.Challenge, model.WeeklyQuiz:
		return card.RewardPoints
	}
	return 0
}

func unlockFanOut(percentage float64) int {
	switch {
	case percentage >= tierGoldPercent:
		return tierGoldUnlocks
	case percentage >= tierSilverPercent:
		return tierSilverUnlocks
	case percentage >= tierBronzePercent:
		return tierBronzeUnlocks
	}
	return 0
}

// SaveMarkReasons 完卷后的第二步：把没把握的题目按原因标记进复盘队列。
// 可重复调用，重复标记不产生新条目。
func (s *SubmissionService) SaveMarkReasons(userID uint, submissionID uint, marks []MarkedQuestion) (int, error) {
	submission, err := s.SubRepo.FindByID(submissionID)
	if err != nil || submission.UserID != userID {
		return 0, util.ErrSubmissionNotFound
	}
	if submission.Status != model.SubmissionCompleted {
		return 0, util.ErrSubmissionNotFinal
	}

	saved := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, mark := range marks {
			reason, ok := model.RevisionReasonForMark(mark.Reason)
			if !ok {
				continue
			}

			answer, err := s.SubRepo.FindAnswer(tx, submission.ID, mark.QuestionID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// 本次答卷里没有这道题，忽略
					continue
				}
				return err
			}

			if err := s.SubRepo.UpdateAnswerMark(tx, answer.ID, mark.Reason); err != nil {
				return err
			}

			entry := &model.RevisionLog{
				UserID:              userID,
				QuestionID:          mark.QuestionID,
				Reason:              reason,
				SourceTestCardID:    submission.TestCardID,
				SourceAttemptNumber: submission.AttemptNumber,
			}
			if err := s.RevisionRepo.GetOrCreate(tx, entry); err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

// ListResults 用户的历史成绩（分页，仅完卷）
func (s *SubmissionService) ListResults(userID uint, page, limit int) ([]model.TestSubmission, int64, error) {
	return s.SubRepo.ListByUser(userID, page, limit)
}

// GetResult 单次答卷的详细结果，含逐题作答与板块表现
func (s *SubmissionService) GetResult(userID uint, submissionID uint) (*model.TestSubmission, []SectionPerformance, error) {
	submission, err := s.SubRepo.FindByIDWithAnswers(submissionID)
	if err != nil || submission.UserID != userID {
		return nil, nil, util.ErrSubmissionNotFound
	}

	sections := sectionBreakdown(submission.Answers)
	return submission, sections, nil
}

func sectionBreakdown(answers []model.Answer) []SectionPerformance {
	order := make([]string, 0)
	bySection := make(map[string]*SectionPerformance)

	for _, answer := range answers {
		if answer.Question == nil {
			continue
		}
		section := answer.Question.Section
		perf, ok := bySection[section]
		if !ok {
			perf = &SectionPerformance{Section: section}
			bySection[section] = perf
			order = append(order, section)
		}
		perf.TotalQuestions++
		if answer.IsCorrect {
			perf.CorrectCount++
		}
	}

	result := make([]SectionPerformance, 0, len(order))
	for _, section := range order {
		perf := bySection[section]
		if perf.TotalQuestions > 0 {
			perf.Accuracy = float64(perf.CorrectCount) / float64(perf.TotalQuestions) * 100
		}
		result = append(result, *perf)
	}
	return result
}
