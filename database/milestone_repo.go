package database

import (
	"errors"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrHasSubmissions blocks milestone deletion while submissions reference it.
var ErrHasSubmissions = errors.New("milestone has submissions")

type MilestoneRepo struct {
	db *gorm.DB
}

func NewMilestoneRepo(db *gorm.DB) *MilestoneRepo {
	return &MilestoneRepo{db}
}

// FindByProject returns a project's milestones in display order.
func (r *MilestoneRepo) FindByProject(projectID uuid.UUID) ([]*models.Milestone, error) {
	var milestones []*models.Milestone
	err := r.db.Where("project_id = ?", projectID).Order("order_index ASC").Find(&milestones).Error
	return milestones, err
}

// FindByID returns a milestone by its ID, or nil when absent.
func (r *MilestoneRepo) FindByID(id uuid.UUID) (*models.Milestone, error) {
	var milestone models.Milestone
	err := r.db.First(&milestone, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

// Add inserts a new milestone into the database
func (r *MilestoneRepo) Add(milestone *models.Milestone) error {
	return r.db.Create(milestone).Error
}

// Update saves an existing milestone
func (r *MilestoneRepo) Update(milestone *models.Milestone) error {
	return r.db.Save(milestone).Error
}

// Delete removes a milestone. Fails with ErrHasSubmissions while any
// submission references it.
func (r *MilestoneRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MilestoneSubmission{}).Where("milestone_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrHasSubmissions
		}
		return tx.Delete(&models.Milestone{}, "id = ?", id).Error
	})
}
