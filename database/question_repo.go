package database

import (
	"errors"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionRepo struct {
	db *gorm.DB
}

func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db}
}

// FindAll returns questions filtered by level and domain when given.
func (r *QuestionRepo) FindAll(level models.Level, domain models.ProjectDomain) ([]*models.Question, error) {
	var questions []*models.Question
	query := r.db.Order("created_at DESC")
	if level != "" {
		query = query.Where("level = ?", level)
	}
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}
	err := query.Find(&questions).Error
	return questions, err
}

// FindByID returns a question by its ID, or nil when absent.
func (r *QuestionRepo) FindByID(id uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := r.db.First(&question, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Add inserts a new question into the database
func (r *QuestionRepo) Add(question *models.Question) error {
	return r.db.Create(question).Error
}

// Update saves an existing question
func (r *QuestionRepo) Update(question *models.Question) error {
	return r.db.Save(question).Error
}

// Delete removes a question by id
func (r *QuestionRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Question{}, "id = ?", id).Error
}
