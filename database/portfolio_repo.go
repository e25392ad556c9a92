package database

import (
	"errors"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortfolioRepo struct {
	db *gorm.DB
}

func NewPortfolioRepo(db *gorm.DB) *PortfolioRepo {
	return &PortfolioRepo{db}
}

// FindByStudent returns all of a student's portfolio items, newest first.
func (r *PortfolioRepo) FindByStudent(studentID uuid.UUID) ([]*models.PortfolioItem, error) {
	var items []*models.PortfolioItem
	err := r.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&items).Error
	return items, err
}

// FindByID returns a portfolio item by its ID, or nil when absent.
func (r *PortfolioRepo) FindByID(id uuid.UUID) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	err := r.db.First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByAssignment returns the item published from an assignment, if any.
func (r *PortfolioRepo) FindByAssignment(assignmentID uuid.UUID) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	err := r.db.First(&item, "source_assignment_id = ?", assignmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Add inserts a new portfolio item into the database
func (r *PortfolioRepo) Add(item *models.PortfolioItem) error {
	return r.db.Create(item).Error
}

// Update saves an existing portfolio item
func (r *PortfolioRepo) Update(item *models.PortfolioItem) error {
	return r.db.Save(item).Error
}

// Delete removes a portfolio item by id
func (r *PortfolioRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.PortfolioItem{}, "id = ?", id).Error
}
