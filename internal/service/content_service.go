package service

import (
	"context"
	"encoding/json"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/pkg/logger"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const contentCacheTTL = 10 * time.Minute

// ContentService 考试目录与学习资料的读取，热点列表走Redis缓存
type ContentService struct {
	ExamRepo *repository.ExamRepository
	MatRepo  *repository.StudyMaterialRepository
	Redis    *redis.Client
}

func NewContentService(examRepo *repository.ExamRepository, matRepo *repository.StudyMaterialRepository, rdb *redis.Client) *ContentService {
	return &ContentService{
		ExamRepo: examRepo,
		MatRepo:  matRepo,
		Redis:    rdb,
	}
}

// cached 读缓存，未命中时回源并写缓存。Redis不可用时直接回源。
func (s *ContentService) cached(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	if s.Redis != nil {
		data, err := s.Redis.Get(ctx, key).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(data, dest); jsonErr == nil {
				return nil
			}
		}
	}

	value, err := load()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return err
	}

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, key, data, contentCacheTTL).Err(); err != nil {
			logger.Log.Warn("Failed to write content cache", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// ListExams onlyWithSubjectTests 为 true 时只列出有科目测试可刷的考试类别
func (s *ContentService) ListExams(ctx context.Context, onlyWithSubjectTests bool) ([]model.Exam, error) {
	var exams []model.Exam
	key := "content:exams"
	load := s.ExamRepo.ListExams
	if onlyWithSubjectTests {
		key = "content:exams:subject"
		load = s.ExamRepo.ListExamsWithSubjectTests
	}
	err := s.cached(ctx, key, &exams, func() (interface{}, error) {
		return load()
	})
	return exams, err
}

func (s *ContentService) GetExam(id string) (*model.Exam, error) {
	return s.ExamRepo.FindExamByID(id)
}

func (s *ContentService) ListSubExams(ctx context.Context, examID string) ([]model.SubExam, error) {
	var subExams []model.SubExam
	key := fmt.Sprintf("content:subexams:%s", examID)
	err := s.cached(ctx, key, &subExams, func() (interface{}, error) {
		return s.ExamRepo.ListSubExams(examID)
	})
	return subExams, err
}

func (s *ContentService) GetSubExam(id string) (*model.SubExam, error) {
	return s.ExamRepo.FindSubExamByID(id)
}

// ListSubExamsWithFullLength 购买入口用的列表：有全真模拟的子科目及其试卷
func (s *ContentService) ListSubExamsWithFullLength(ctx context.Context) ([]model.SubExam, error) {
	var subExams []model.SubExam
	err := s.cached(ctx, "content:subexams:full", &subExams, func() (interface{}, error) {
		return s.ExamRepo.ListSubExamsWithFullLength()
	})
	return subExams, err
}

func (s *ContentService) ListNotes(ctx context.Context, subExamID string) ([]model.StudyNote, error) {
	var notes []model.StudyNote
	key := fmt.Sprintf("content:notes:%s", subExamID)
	err := s.cached(ctx, key, &notes, func() (interface{}, error) {
		return s.MatRepo.ListNotes(subExamID)
	})
	return notes, err
}

func (s *ContentService) ListMindMaps(ctx context.Context, subExamID string) ([]model.MindMap, error) {
	var maps []model.MindMap
	key := fmt.Sprintf("content:mindmaps:%s", subExamID)
	err := s.cached(ctx, key, &maps, func() (interface{}, error) {
		return s.MatRepo.ListMindMaps(subExamID)
	})
	return maps, err
}

func (s *ContentService) ListFlashcards(ctx context.Context, subExamID string) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	key := fmt.Sprintf("content:flashcards:%s", subExamID)
	err := s.cached(ctx, key, &cards, func() (interface{}, error) {
		return s.MatRepo.ListFlashcards(subExamID)
	})
	return cards, err
}

// InvalidateSubExam 管理端写入学习资料后清缓存
func (s *ContentService) InvalidateSubExam(ctx context.Context, subExamID string) {
	if s.Redis == nil {
		return
	}
	keys := []string{
		fmt.Sprintf("content:notes:%s", subExamID),
		fmt.Sprintf("content:mindmaps:%s", subExamID),
		fmt.Sprintf("content:flashcards:%s", subExamID),
	}
	s.Redis.Del(ctx, keys...)
}

func (s *ContentService) CreateExam(exam *model.Exam) error {
	err := s.ExamRepo.CreateExam(exam)
	if err == nil && s.Redis != nil {
		s.Redis.Del(context.Background(), "content:exams", "content:exams:subject")
	}
	return err
}

func (s *ContentService) CreateSubExam(subExam *model.SubExam) error {
	err := s.ExamRepo.CreateSubExam(subExam)
	if err == nil && s.Redis != nil {
		s.Redis.Del(context.Background(),
			fmt.Sprintf("content:subexams:%s", subExam.ExamID),
			"content:subexams:full")
	}
	return err
}

func (s *ContentService) CreateNote(note *model.StudyNote) error {
	err := s.MatRepo.CreateNote(note)
	if err == nil {
		s.InvalidateSubExam(context.Background(), note.SubExamID)
	}
	return err
}

func (s *ContentService) CreateMindMap(mindMap *model.MindMap) error {
	err := s.MatRepo.CreateMindMap(mindMap)
	if err == nil {
		s.InvalidateSubExam(context.Background(), mindMap.SubExamID)
	}
	return err
}

func (s *ContentService) CreateFlashcard(card *model.Flashcard) error {
	err := s.MatRepo.CreateFlashcard(card)
	if err == nil {
		s.InvalidateSubExam(context.Background(), card.SubExamID)
	}
	return err
}
