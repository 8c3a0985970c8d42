package service

import (
	"exam_prep_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedAt(t time.Time) *time.Time {
	return &t
}

func TestStudyStreak(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, studyStreak(nil, now))
	})

	t.Run("three consecutive days including today", func(t *testing.T) {
		subs := []model.TestSubmission{
			{FinishedAt: finishedAt(now)},
			{FinishedAt: finishedAt(now.AddDate(0, 0, -1))},
			{FinishedAt: finishedAt(now.AddDate(0, 0, -2))},
		}
		assert.Equal(t, 3, studyStreak(subs, now))
	})

	t.Run("today missing counts from yesterday", func(t *testing.T) {
		subs := []model.TestSubmission{
			{FinishedAt: finishedAt(now.AddDate(0, 0, -1))},
			{FinishedAt: finishedAt(now.AddDate(0, 0, -2))},
		}
		assert.Equal(t, 2, studyStreak(subs, now))
	})

	t.Run("gap breaks streak", func(t *testing.T) {
		subs := []model.TestSubmission{
			{FinishedAt: finishedAt(now)},
			{FinishedAt: finishedAt(now.AddDate(0, 0, -2))},
		}
		assert.Equal(t, 1, studyStreak(subs, now))
	})
}

func TestSectionBreakdown(t *testing.T) {
	answers := []model.Answer{
		{IsCorrect: true, Question: &model.Question{Section: "History"}},
		{IsCorrect: false, Question: &model.Question{Section: "History"}},
		{IsCorrect: true, Question: &model.Question{Section: "Geography"}},
	}

	sections := sectionBreakdown(answers)
	require.Len(t, sections, 2)

	assert.Equal(t, "History", sections[0].Section)
	assert.Equal(t, 2, sections[0].TotalQuestions)
	assert.Equal(t, 1, sections[0].CorrectCount)
	assert.InDelta(t, 50.0, sections[0].Accuracy, 1e-9)

	assert.Equal(t, "Geography", sections[1].Section)
	assert.InDelta(t, 100.0, sections[1].Accuracy, 1e-9)
}

func TestDashboardAggregates(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 25)
	card := env.createCard(t, "sub_dash", model.SubjectWise, 1, 0, 0)
	questions := env.createQuestions(t, card.ID, 4, 1, 0)

	analytics := NewAnalyticsService(env.submissions, env.revisions, env.users, env.exams)

	// 第一次 50%，第二次 100%
	start, err := env.submitSvc.StartTest(user.ID, card.ID)
	require.NoError(t, err)
	_, err = env.submitSvc.SubmitTest(user.ID, start.Submission.ID, answerSheet(questions, 2, 2))
	require.NoError(t, err)

	start, err = env.submitSvc.StartTest(user.ID, card.ID)
	require.NoError(t, err)
	_, err = env.submitSvc.SubmitTest(user.ID, start.Submission.ID, answerSheet(questions, 4, 0))
	require.NoError(t, err)

	stats, err := analytics.Dashboard(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TestsCompleted)
	assert.InDelta(t, 75.0, stats.AveragePercentage, 1e-9)
	assert.InDelta(t, 100.0, stats.BestPercentage, 1e-9)
	// 满分那次 +10 积分
	assert.Equal(t, 35, stats.RewardPoints)
	// 第一次的2道错题
	assert.Equal(t, int64(2), stats.RevisionQueueSize)
	assert.GreaterOrEqual(t, stats.StudyStreakDays, 1)
	assert.Len(t, stats.RecentResults, 2)
}

func TestHubGroupsByTypeAndFindsWeakTopics(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 0)
	card := env.createCard(t, "sub_hub", model.SubjectWise, 1, 0, 0)

	// 一个薄弱知识点（全错）和一个强项（全对）
	weak := make([]model.Question, 3)
	strong := make([]model.Question, 3)
	for i := 0; i < 3; i++ {
		weak[i] = model.Question{
			TestCardID: card.ID, QuestionText: "w", CorrectOption: model.OptionA,
			Section: "General", Topic: "Mughal Empire", PositiveMarks: 1, NegativeMarks: 0,
		}
		strong[i] = model.Question{
			TestCardID: card.ID, QuestionText: "s", CorrectOption: model.OptionA,
			Section: "General", Topic: "Rivers", PositiveMarks: 1, NegativeMarks: 0,
		}
	}
	require.NoError(t, env.db.Create(&weak).Error)
	require.NoError(t, env.db.Create(&strong).Error)

	start, err := env.submitSvc.StartTest(user.ID, card.ID)
	require.NoError(t, err)

	a := model.OptionA
	b := model.OptionB
	answers := make([]SubmittedAnswer, 0, 6)
	for _, q := range weak {
		answers = append(answers, SubmittedAnswer{QuestionID: q.ID, SelectedOption: &b})
	}
	for _, q := range strong {
		answers = append(answers, SubmittedAnswer{QuestionID: q.ID, SelectedOption: &a})
	}
	_, err = env.submitSvc.SubmitTest(user.ID, start.Submission.ID, answers)
	require.NoError(t, err)

	analytics := NewAnalyticsService(env.submissions, env.revisions, env.users, env.exams)
	hub, err := analytics.Hub(user.ID)
	require.NoError(t, err)

	require.Len(t, hub.ByType, 1)
	assert.Equal(t, model.SubjectWise, hub.ByType[0].TestType)
	assert.Equal(t, 1, hub.ByType[0].Attempts)
	assert.InDelta(t, 50.0, hub.ByType[0].AveragePercentage, 1e-9)

	require.Len(t, hub.WeakTopics, 2)
	assert.Equal(t, "Mughal Empire", hub.WeakTopics[0].Topic)
	assert.InDelta(t, 0.0, hub.WeakTopics[0].Accuracy, 1e-9)
	assert.Equal(t, "Rivers", hub.WeakTopics[1].Topic)
}

func TestWeekStartOf(t *testing.T) {
	monday := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-17", weekStartOf(monday))
	assert.Equal(t, "2026-08-17", weekStartOf(monday.AddDate(0, 0, 3)))
	// 周日仍属于本周
	assert.Equal(t, "2026-08-17", weekStartOf(monday.AddDate(0, 0, 6)))
	assert.Equal(t, "2026-08-24", weekStartOf(monday.AddDate(0, 0, 7)))
}

func TestHubTrendAndSubjectPerformance(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 0)

	subExams := []model.SubExam{
		{StringIDBase: model.StringIDBase{ID: "sub_exam_1"}, ExamID: "exam_1", Name: "History of India"},
		{StringIDBase: model.StringIDBase{ID: "sub_exam_2"}, ExamID: "exam_1", Name: "Geography"},
	}
	require.NoError(t, env.db.Create(&subExams).Error)

	history := env.createCard(t, "sub_hist", model.SubjectWise, 1, 0, 0)
	geo := &model.TestCard{
		StringIDBase: model.StringIDBase{ID: "sub_geo"},
		SubExamID:    "sub_exam_2",
		Name:         "Test geo",
		TestType:     model.SubjectWise,
		Order:        1,
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(geo).Error)

	// 第一周一次历史，第二周历史和地理各一次
	week1 := time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)
	completed := []model.TestSubmission{
		{UserID: user.ID, TestCardID: history.ID, AttemptNumber: 1, Percentage: 60, Status: model.SubmissionCompleted, FinishedAt: finishedAt(week1)},
		{UserID: user.ID, TestCardID: history.ID, AttemptNumber: 2, Percentage: 80, Status: model.SubmissionCompleted, FinishedAt: finishedAt(week2)},
		{UserID: user.ID, TestCardID: geo.ID, AttemptNumber: 1, Percentage: 90, Status: model.SubmissionCompleted, FinishedAt: finishedAt(week2.AddDate(0, 0, 2))},
	}
	require.NoError(t, env.db.Create(&completed).Error)

	analytics := NewAnalyticsService(env.submissions, env.revisions, env.users, env.exams)
	hub, err := analytics.Hub(user.ID)
	require.NoError(t, err)

	require.Len(t, hub.Trend, 2)
	assert.Equal(t, "2026-08-17", hub.Trend[0].WeekStart)
	assert.Equal(t, 1, hub.Trend[0].Tests)
	assert.InDelta(t, 60.0, hub.Trend[0].AveragePercentage, 1e-9)
	assert.Equal(t, "2026-08-24", hub.Trend[1].WeekStart)
	assert.Equal(t, 2, hub.Trend[1].Tests)
	assert.InDelta(t, 85.0, hub.Trend[1].AveragePercentage, 1e-9)

	// 平均分高的子科目在前
	require.Len(t, hub.BySubject, 2)
	assert.Equal(t, "Geography", hub.BySubject[0].SubExamName)
	assert.Equal(t, 1, hub.BySubject[0].Attempts)
	assert.InDelta(t, 90.0, hub.BySubject[0].AveragePercentage, 1e-9)
	assert.Equal(t, "History of India", hub.BySubject[1].SubExamName)
	assert.Equal(t, 2, hub.BySubject[1].Attempts)
	assert.InDelta(t, 70.0, hub.BySubject[1].AveragePercentage, 1e-9)
}

func TestRevisionSummaryCounts(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 0)
	card := env.createCard(t, "sub_summary", model.SubjectWise, 1, 0, 0)
	questions := env.createQuestions(t, card.ID, 4, 1, 0)

	start, err := env.submitSvc.StartTest(user.ID, card.ID)
	require.NoError(t, err)
	_, err = env.submitSvc.SubmitTest(user.ID, start.Submission.ID, answerSheet(questions, 2, 2))
	require.NoError(t, err)

	_, err = env.submitSvc.SaveMarkReasons(user.ID, start.Submission.ID, []MarkedQuestion{
		{QuestionID: questions[0].ID, Reason: model.MarkTimePressure},
	})
	require.NoError(t, err)

	summary, err := env.revisionSvc.Summary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalEntries)

	byReason := make(map[model.RevisionReason]int64)
	for _, row := range summary.ByReason {
		byReason[row.Reason] = row.Count
	}
	assert.Equal(t, int64(2), byReason[model.RevisionIncorrect])
	assert.Equal(t, int64(1), byReason[model.RevisionMarkedTime])

	entries, total, err := env.revisionSvc.List(user.ID, model.RevisionIncorrect, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, entries, 2)
}
