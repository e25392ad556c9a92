package models

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentInvited   AssignmentStatus = "invited"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentDeclined  AssignmentStatus = "declined"
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentInvited, AssignmentAccepted, AssignmentDeclined, AssignmentActive, AssignmentCompleted:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is permitted.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentDeclined || s == AssignmentCompleted
}

// CanTransitionTo encodes the assignment lifecycle:
// invited -> accepted | declined, accepted -> active | completed,
// active -> completed. declined and completed are terminal.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	switch s {
	case AssignmentInvited:
		return next == AssignmentAccepted || next == AssignmentDeclined
	case AssignmentAccepted:
		return next == AssignmentActive || next == AssignmentCompleted
	case AssignmentActive:
		return next == AssignmentCompleted
	default:
		return false
	}
}

// CompletableStatuses are the statuses an assignment may be completed from.
func CompletableStatuses() []AssignmentStatus {
	return []AssignmentStatus{AssignmentAccepted, AssignmentActive}
}

// Assignment is the relationship between one student and one project,
// carrying its own lifecycle independent of the project's status.
type Assignment struct {
	ID              uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID       uuid.UUID        `json:"project_id" gorm:"type:uuid;not null;index:idx_assignments_project_student"`
	StudentID       uuid.UUID        `json:"student_id" gorm:"type:uuid;not null;index:idx_assignments_project_student;index"`
	TeamID          *uuid.UUID       `json:"team_id,omitempty" gorm:"type:uuid"`
	Status          AssignmentStatus `json:"status" gorm:"type:text;not null;default:invited;index"`
	Feedback        *string          `json:"feedback,omitempty" gorm:"type:text"`
	Rating          *int             `json:"rating,omitempty"`
	StudentFeedback *string          `json:"student_feedback,omitempty" gorm:"type:text"`
	StudentRating   *int             `json:"student_rating,omitempty"`
	AssignedAt      *time.Time       `json:"assigned_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	Metadata        map[string]any   `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// BelongsTo reports whether the assignment is the given student's own.
func (a *Assignment) BelongsTo(studentID uuid.UUID) bool {
	return a.StudentID == studentID
}
