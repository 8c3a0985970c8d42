package service

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
)

// RevisionSummary 复盘队列概览
type RevisionSummary struct {
	TotalEntries int64                    `json:"totalEntries"`
	ByReason     []repository.ReasonCount `json:"byReason"`
}

// RevisionService 个人复盘队列的浏览与统计
type RevisionService struct {
	RevisionRepo *repository.RevisionRepository
}

func NewRevisionService(revisionRepo *repository.RevisionRepository) *RevisionService {
	return &RevisionService{RevisionRepo: revisionRepo}
}

func (s *RevisionService) List(userID uint, reason model.RevisionReason, page, limit int) ([]model.RevisionLog, int64, error) {
	return s.RevisionRepo.ListByUser(userID, reason, page, limit)
}

func (s *RevisionService) Summary(userID uint) (*RevisionSummary, error) {
	total, err := s.RevisionRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	byReason, err := s.RevisionRepo.CountByReason(userID)
	if err != nil {
		return nil, err
	}
	return &RevisionSummary{
		TotalEntries: total,
		ByReason:     byReason,
	}, nil
}
