package database

import (
	"errors"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) *AssignmentRepo {
	return &AssignmentRepo{db}
}

// Add inserts a new assignment into the database
func (r *AssignmentRepo) Add(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

// FindByID returns an assignment by its ID, or nil when absent.
func (r *AssignmentRepo) FindByID(id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.First(&assignment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindNonDeclined returns the student's live assignment for a project, if
// any. A declined invite does not block a fresh one.
func (r *AssignmentRepo) FindNonDeclined(projectID, studentID uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.
		Where("project_id = ? AND student_id = ? AND status <> ?", projectID, studentID, models.AssignmentDeclined).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByProject returns all assignments for a project, newest first.
func (r *AssignmentRepo) FindByProject(projectID uuid.UUID) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	err := r.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&assignments).Error
	return assignments, err
}

// FindByStudent returns a student's assignments, optionally filtered by status.
func (r *AssignmentRepo) FindByStudent(studentID uuid.UUID, status models.AssignmentStatus) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	query := r.db.Where("student_id = ?", studentID).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&assignments).Error
	return assignments, err
}

// TransitionStatus performs a guarded status write: the row is updated only
// while its current status is one of `from`, so exactly one of two racing
// transitions wins. extra columns are written in the same statement.
// Returns false when the row was not in an eligible state (or is gone).
func (r *AssignmentRepo) TransitionStatus(id uuid.UUID, from []models.AssignmentStatus, to models.AssignmentStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for column, value := range extra {
		updates[column] = value
	}
	res := r.db.Model(&models.Assignment{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetStudentFeedback writes the student's counter-feedback. The write is
// guarded on status = completed; a later call overwrites the prior feedback.
// Returns false when the assignment is not completed (or is gone).
func (r *AssignmentRepo) SetStudentFeedback(id uuid.UUID, feedback *string, rating *int) (bool, error) {
	res := r.db.Model(&models.Assignment{}).
		Where("id = ? AND status = ?", id, models.AssignmentCompleted).
		Updates(map[string]any{
			"student_feedback": feedback,
			"student_rating":   rating,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
