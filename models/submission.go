package models

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
	SubmissionReviewed SubmissionStatus = "reviewed"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected, SubmissionReviewed:
		return true
	default:
		return false
	}
}

// ValidReviewStatus reports whether s is a status an admin may set.
func (s SubmissionStatus) ValidReviewStatus() bool {
	return s == SubmissionApproved || s == SubmissionRejected || s == SubmissionReviewed
}

// MilestoneSubmission is a student's work submitted against one milestone of
// their assignment. One row per (assignment, milestone); resubmission
// overwrites. Version guards concurrent admin reviews.
type MilestoneSubmission struct {
	ID               uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	AssignmentID     uuid.UUID        `json:"assignment_id" gorm:"type:uuid;not null;uniqueIndex:idx_submissions_assignment_milestone"`
	MilestoneID      uuid.UUID        `json:"milestone_id" gorm:"type:uuid;not null;uniqueIndex:idx_submissions_assignment_milestone;index"`
	AnswerText       *string          `json:"answer_text,omitempty" gorm:"type:text"`
	AttachmentURL    *string          `json:"attachment_url,omitempty" gorm:"type:text"`
	Status           SubmissionStatus `json:"status" gorm:"type:text;not null;default:pending;index"`
	ReviewerFeedback *string          `json:"reviewer_feedback,omitempty" gorm:"type:text"`
	ReviewedBy       *uuid.UUID       `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt       *time.Time       `json:"reviewed_at,omitempty"`
	Version          int              `json:"-" gorm:"not null;default:0"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Validate enforces the cross-field rule: at least one of answer_text or
// attachment_url, and the attachment URL constraints when one is given.
func (s *MilestoneSubmission) Validate() error {
	answer := ""
	if s.AnswerText != nil {
		answer = *s.AnswerText
	}
	attachment := ""
	if s.AttachmentURL != nil {
		attachment = *s.AttachmentURL
	}
	if err := RequireOneOf(map[string]string{
		"answer_text":    answer,
		"attachment_url": attachment,
	}); err != nil {
		return err
	}
	if attachment != "" {
		if err := ValidateAttachmentURL(attachment); err != nil {
			return err
		}
	}
	return nil
}
