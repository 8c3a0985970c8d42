package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type StudyMaterialRepository struct {
	DB *gorm.DB
}

func NewStudyMaterialRepository(db *gorm.DB) *StudyMaterialRepository {
	return &StudyMaterialRepository{DB: db}
}

func (r *StudyMaterialRepository) ListNotes(subExamID string) ([]model.StudyNote, error) {
	var notes []model.StudyNote
	err := r.DB.Where("sub_exam_id = ?", subExamID).Order("created_at asc").Find(&notes).Error
	return notes, err
}

func (r *StudyMaterialRepository) ListMindMaps(subExamID string) ([]model.MindMap, error) {
	var maps []model.MindMap
	err := r.DB.Where("sub_exam_id = ?", subExamID).Order("created_at asc").Find(&maps).Error
	return maps, err
}

func (r *StudyMaterialRepository) ListFlashcards(subExamID string) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := r.DB.Where("sub_exam_id = ?", subExamID).Order("created_at asc").Find(&cards).Error
	return cards, err
}

func (r *StudyMaterialRepository) CreateNote(note *model.StudyNote) error {
	return r.DB.Create(note).Error
}

func (r *StudyMaterialRepository) CreateMindMap(mindMap *model.MindMap) error {
	return r.DB.Create(mindMap).Error
}

func (r *StudyMaterialRepository) CreateFlashcard(card *model.Flashcard) error {
	return r.DB.Create(card).Error
}
