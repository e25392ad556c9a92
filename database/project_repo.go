package database

import (
	"errors"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrHasAssignments blocks project deletion while assignments reference it.
var ErrHasAssignments = errors.New("project has assignments")

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindByOwner returns the owner's projects, newest first, optionally
// filtered by status.
func (r *ProjectRepo) FindByOwner(ownerID uuid.UUID, status models.ProjectStatus) ([]*models.Project, error) {
	var projects []*models.Project
	query := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil when absent.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update saves an existing project
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// UpdateStatus sets only the status column. Returns false when no row matched.
func (r *ProjectRepo) UpdateStatus(id uuid.UUID, status models.ProjectStatus) (bool, error) {
	res := r.db.Model(&models.Project{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteWithMilestones removes a project and its milestones in one
// transaction. Fails with ErrHasAssignments while any assignment references
// the project.
func (r *ProjectRepo) DeleteWithMilestones(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Assignment{}).Where("project_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrHasAssignments
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Milestone{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}
