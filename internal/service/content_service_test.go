package service

import (
	"context"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentEnv(t *testing.T) (*testEnv, *ContentService) {
	t.Helper()
	env := newTestEnv(t)
	content := NewContentService(env.exams, repository.NewStudyMaterialRepository(env.db), nil)
	return env, content
}

func TestListExamsHasSubjectTestsFilter(t *testing.T) {
	env, content := newContentEnv(t)

	exams := []model.Exam{
		{StringIDBase: model.StringIDBase{ID: "exam_1"}, Name: "UPSC"},
		{StringIDBase: model.StringIDBase{ID: "exam_2"}, Name: "SSC"},
	}
	require.NoError(t, env.db.Create(&exams).Error)
	subExams := []model.SubExam{
		{StringIDBase: model.StringIDBase{ID: "sub_exam_1"}, ExamID: "exam_1", Name: "History of India"},
		{StringIDBase: model.StringIDBase{ID: "sub_exam_2"}, ExamID: "exam_2", Name: "Reasoning"},
	}
	require.NoError(t, env.db.Create(&subExams).Error)

	// exam_1 下有科目测试，exam_2 下只有每周测验
	env.createCard(t, "sub_filter_1", model.SubjectWise, 1, 0, 0)
	env.createCard(t, "sub_filter_2", model.SubjectWise, 2, 0, 0)
	quiz := &model.TestCard{
		StringIDBase: model.StringIDBase{ID: "quiz_filter"},
		SubExamID:    "sub_exam_2",
		Name:         "Weekly",
		TestType:     model.WeeklyQuiz,
		Order:        1,
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(quiz).Error)

	all, err := content.ListExams(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// 多套科目测试也只出现一次
	filtered, err := content.ListExams(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "exam_1", filtered[0].ID)
}

func TestListSubExamsWithFullLength(t *testing.T) {
	env, content := newContentEnv(t)

	subExams := []model.SubExam{
		{StringIDBase: model.StringIDBase{ID: "sub_exam_1"}, ExamID: "exam_1", Name: "History of India"},
		{StringIDBase: model.StringIDBase{ID: "sub_exam_2"}, ExamID: "exam_1", Name: "Geography"},
	}
	require.NoError(t, env.db.Create(&subExams).Error)

	// sub_exam_1 同时有科目测试和两套全真模拟，sub_exam_2 没有全真模拟
	env.createCard(t, "sub_full_subject", model.SubjectWise, 1, 0, 0)
	env.createCard(t, "full_a", model.FullLength, 1, 10, 0)
	env.createCard(t, "full_b", model.FullLength, 2, 10, 0)

	result, err := content.ListSubExamsWithFullLength(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "sub_exam_1", result[0].ID)

	// 只带全真模拟，不带科目测试
	require.Len(t, result[0].TestCards, 2)
	for _, card := range result[0].TestCards {
		assert.Equal(t, model.FullLength, card.TestType)
	}
}
