package service

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"sort"
	"time"
)

// DashboardStats 学习主页概览
type DashboardStats struct {
	RewardPoints      int                    `json:"rewardPoints"`
	TestsCompleted    int                    `json:"testsCompleted"`
	AveragePercentage float64                `json:"averagePercentage"`
	BestPercentage    float64                `json:"bestPercentage"`
	StudyStreakDays   int                    `json:"studyStreakDays"`
	RevisionQueueSize int64                  `json:"revisionQueueSize"`
	RecentResults     []model.TestSubmission `json:"recentResults"`
}

// TypeStats 某一类试卷的聚合表现
type TypeStats struct {
	TestType          model.TestType `json:"testType"`
	Attempts          int            `json:"attempts"`
	AveragePercentage float64        `json:"averagePercentage"`
	BestPercentage    float64        `json:"bestPercentage"`
	PointsEarned      int            `json:"pointsEarned"`
}

// TopicPerformance 知识点维度的正确率，用于定位薄弱环节
type TopicPerformance struct {
	Topic         string  `json:"topic"`
	TotalAnswered int     `json:"totalAnswered"`
	CorrectCount  int     `json:"correctCount"`
	Accuracy      float64 `json:"accuracy"`
}

// TrendPoint 按周聚合的成绩走势点，WeekStart 为周一日期
type TrendPoint struct {
	WeekStart         string  `json:"weekStart"`
	Tests             int     `json:"tests"`
	AveragePercentage float64 `json:"averagePercentage"`
}

// SubjectStats 子科目维度的聚合表现
type SubjectStats struct {
	SubExamID         string  `json:"subExamId"`
	SubExamName       string  `json:"subExamName"`
	Attempts          int     `json:"attempts"`
	AveragePercentage float64 `json:"averagePercentage"`
}

// PerformanceHub 成绩中心：分类型统计、周走势、子科目表现与薄弱知识点
type PerformanceHub struct {
	ByType     []TypeStats        `json:"byType"`
	Trend      []TrendPoint       `json:"trend"`
	BySubject  []SubjectStats     `json:"bySubject"`
	WeakTopics []TopicPerformance `json:"weakTopics"`
}

// AnalyticsService 学习数据统计。
// 聚合在内存中完成，避免依赖方言特有的SQL。
type AnalyticsService struct {
	SubRepo      *repository.SubmissionRepository
	RevisionRepo *repository.RevisionRepository
	UserRepo     *repository.UserRepository
	ExamRepo     *repository.ExamRepository
}

func NewAnalyticsService(subRepo *repository.SubmissionRepository, revisionRepo *repository.RevisionRepository, userRepo *repository.UserRepository, examRepo *repository.ExamRepository) *AnalyticsService {
	return &AnalyticsService{
		SubRepo:      subRepo,
		RevisionRepo: revisionRepo,
		UserRepo:     userRepo,
		ExamRepo:     examRepo,
	}
}

func (s *AnalyticsService) Dashboard(userID uint) (*DashboardStats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.SubRepo.ListCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	revisionCount, err := s.RevisionRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		RewardPoints:      user.RewardPoints,
		TestsCompleted:    len(submissions),
		RevisionQueueSize: revisionCount,
		StudyStreakDays:   studyStreak(submissions, time.Now()),
	}

	var sum float64
	for _, sub := range submissions {
		sum += sub.Percentage
		if sub.Percentage > stats.BestPercentage {
			stats.BestPercentage = sub.Percentage
		}
	}
	if len(submissions) > 0 {
		stats.AveragePercentage = sum / float64(len(submissions))
	}

	recent := submissions
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	// 倒序展示最近的在前
	stats.RecentResults = make([]model.TestSubmission, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		stats.RecentResults = append(stats.RecentResults, recent[i])
	}

	return stats, nil
}

// studyStreak 从今天往回数连续有完卷记录的天数，今天没有则从昨天算起
func studyStreak(submissions []model.TestSubmission, now time.Time) int {
	if len(submissions) == 0 {
		return 0
	}

	days := make(map[string]bool, len(submissions))
	for _, sub := range submissions {
		if sub.FinishedAt != nil {
			days[sub.FinishedAt.Format("2006-01-02")] = true
		}
	}

	streak := 0
	day := now
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func (s *AnalyticsService) Hub(userID uint) (*PerformanceHub, error) {
	submissions, err := s.SubRepo.ListCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	byType := make(map[model.TestType]*TypeStats)
	typeOrder := []model.TestType{model.SubjectWise, model.FullLength, model.Challenge, model.WeeklyQuiz}
	for _, sub := range submissions {
		if sub.TestCard == nil {
			continue
		}
		stats, ok := byType[sub.TestCard.TestType]
		if !ok {
			stats = &TypeStats{TestType: sub.TestCard.TestType}
			byType[sub.TestCard.TestType] = stats
		}
		stats.Attempts++
		stats.AveragePercentage += sub.Percentage
		if sub.Percentage > stats.BestPercentage {
			stats.BestPercentage = sub.Percentage
		}
		stats.PointsEarned += sub.RewardPointsEarned
	}

	hub := &PerformanceHub{ByType: make([]TypeStats, 0, len(byType))}
	for _, testType := range typeOrder {
		if stats, ok := byType[testType]; ok {
			stats.AveragePercentage /= float64(stats.Attempts)
			hub.ByType = append(hub.ByType, *stats)
		}
	}

	hub.Trend = weeklyTrend(submissions)

	bySubject, err := s.subjectPerformance(submissions)
	if err != nil {
		return nil, err
	}
	hub.BySubject = bySubject

	weakTopics, err := s.weakTopics(userID)
	if err != nil {
		return nil, err
	}
	hub.WeakTopics = weakTopics

	return hub, nil
}

// weekStartOf 所在周的周一日期，用作走势图的横轴
func weekStartOf(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}

// weeklyTrend 按完卷周聚合平均成绩，按时间升序
func weeklyTrend(submissions []model.TestSubmission) []TrendPoint {
	byWeek := make(map[string]*TrendPoint)
	for _, sub := range submissions {
		if sub.FinishedAt == nil {
			continue
		}
		week := weekStartOf(*sub.FinishedAt)
		point, ok := byWeek[week]
		if !ok {
			point = &TrendPoint{WeekStart: week}
			byWeek[week] = point
		}
		point.Tests++
		point.AveragePercentage += sub.Percentage
	}

	trend := make([]TrendPoint, 0, len(byWeek))
	for _, point := range byWeek {
		point.AveragePercentage /= float64(point.Tests)
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].WeekStart < trend[j].WeekStart
	})
	return trend
}

// subjectPerformance 按子科目聚合完卷成绩，平均分高的在前
func (s *AnalyticsService) subjectPerformance(submissions []model.TestSubmission) ([]SubjectStats, error) {
	bySubExam := make(map[string]*SubjectStats)
	for _, sub := range submissions {
		if sub.TestCard == nil || sub.TestCard.SubExamID == "" {
			continue
		}
		stats, ok := bySubExam[sub.TestCard.SubExamID]
		if !ok {
			stats = &SubjectStats{SubExamID: sub.TestCard.SubExamID}
			bySubExam[sub.TestCard.SubExamID] = stats
		}
		stats.Attempts++
		stats.AveragePercentage += sub.Percentage
	}
	if len(bySubExam) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(bySubExam))
	for id := range bySubExam {
		ids = append(ids, id)
	}
	subExams, err := s.ExamRepo.FindSubExamsByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, subExam := range subExams {
		if stats, ok := bySubExam[subExam.ID]; ok {
			stats.SubExamName = subExam.Name
		}
	}

	result := make([]SubjectStats, 0, len(bySubExam))
	for _, stats := range bySubExam {
		stats.AveragePercentage /= float64(stats.Attempts)
		result = append(result, *stats)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AveragePercentage != result[j].AveragePercentage {
			return result[i].AveragePercentage > result[j].AveragePercentage
		}
		return result[i].SubExamName < result[j].SubExamName
	})
	return result, nil
}

// weakTopics 按知识点统计正确率，取正确率最低的5个（至少答过3题才计入）
func (s *AnalyticsService) weakTopics(userID uint) ([]TopicPerformance, error) {
	answers, err := s.SubRepo.ListAnswersForUser(userID)
	if err != nil {
		return nil, err
	}

	byTopic := make(map[string]*TopicPerformance)
	for _, answer := range answers {
		if answer.Question == nil || answer.Question.Topic == "" || answer.SelectedOption == nil {
			continue
		}
		topic := answer.Question.Topic
		perf, ok := byTopic[topic]
		if !ok {
			perf = &TopicPerformance{Topic: topic}
			byTopic[topic] = perf
		}
		perf.TotalAnswered++
		if answer.IsCorrect {
			perf.CorrectCount++
		}
	}

	topics := make([]TopicPerformance, 0, len(byTopic))
	for _, perf := range byTopic {
		if perf.TotalAnswered < 3 {
			continue
		}
		perf.Accuracy = float64(perf.CorrectCount) / float64(perf.TotalAnswered) * 100
		topics = append(topics, *perf)
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Accuracy != topics[j].Accuracy {
			return topics[i].Accuracy < topics[j].Accuracy
		}
		return topics[i].Topic < topics[j].Topic
	})

	if len(topics) > 5 {
		topics = topics[:5]
	}
	return topics, nil
}
