package database

import (
	"errors"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db}
}

// Submit upserts the student's work for one (assignment, milestone) pair and,
// in the same transaction, moves an accepted assignment to active. A
// resubmission resets the review fields, returns the row to pending and bumps
// the version so a review validated against the previous content loses its
// optimistic lock.
func (r *SubmissionRepo) Submit(submission *models.MilestoneSubmission) (*models.MilestoneSubmission, error) {
	var saved models.MilestoneSubmission
	err := r.db.Transaction(func(tx *gorm.DB) error {
		submission.Status = models.SubmissionPending
		submission.ReviewerFeedback = nil
		submission.ReviewedBy = nil
		submission.ReviewedAt = nil

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assignment_id"}, {Name: "milestone_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"answer_text":       submission.AnswerText,
				"attachment_url":    submission.AttachmentURL,
				"status":            models.SubmissionPending,
				"reviewer_feedback": nil,
				"reviewed_by":       nil,
				"reviewed_at":       nil,
				"version":           gorm.Expr("version + 1"),
				"updated_at":        time.Now(),
			}),
		}).Create(submission).Error; err != nil {
			return err
		}

		// milestone work starting marks the assignment active
		if err := tx.Model(&models.Assignment{}).
			Where("id = ? AND status = ?", submission.AssignmentID, models.AssignmentAccepted).
			Update("status", models.AssignmentActive).Error; err != nil {
			return err
		}

		return tx.
			Where("assignment_id = ? AND milestone_id = ?", submission.AssignmentID, submission.MilestoneID).
			First(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// FindByID returns a submission by its ID, or nil when absent.
func (r *SubmissionRepo) FindByID(id uuid.UUID) (*models.MilestoneSubmission, error) {
	var submission models.MilestoneSubmission
	err := r.db.First(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByAssignment returns the submissions belonging to one assignment.
func (r *SubmissionRepo) FindByAssignment(assignmentID uuid.UUID) ([]*models.MilestoneSubmission, error) {
	var submissions []*models.MilestoneSubmission
	err := r.db.Where("assignment_id = ?", assignmentID).Find(&submissions).Error
	return submissions, err
}

// FindForAdmin returns submissions across all assignments, newest first,
// optionally filtered by status and by the project the milestone belongs to.
func (r *SubmissionRepo) FindForAdmin(status models.SubmissionStatus, projectID *uuid.UUID) ([]*models.MilestoneSubmission, error) {
	var submissions []*models.MilestoneSubmission
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if projectID != nil {
		query = query.Where("milestone_id IN (?)",
			r.db.Model(&models.Milestone{}).Select("id").Where("project_id = ?", *projectID))
	}
	err := query.Find(&submissions).Error
	return submissions, err
}

// Review writes an admin verdict with an optimistic lock on the version
// column: of two racing reviews exactly one matches the expected version.
// Returns false when the version moved underneath the caller.
func (r *SubmissionRepo) Review(id uuid.UUID, expectedVersion int, status models.SubmissionStatus, feedback *string, reviewerID uuid.UUID) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.MilestoneSubmission{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"status":            status,
			"reviewer_feedback": feedback,
			"reviewed_by":       reviewerID,
			"reviewed_at":       now,
			"version":           gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
