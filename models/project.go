package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectDomain string

const (
	DomainFrontend ProjectDomain = "frontend"
	DomainBackend  ProjectDomain = "backend"
)

func (d ProjectDomain) Valid() bool {
	return d == DomainFrontend || d == DomainBackend
}

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Valid reports enum membership. Project status moves are intentionally
// unrestricted beyond membership: the owning business decides the meaning.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectDraft, ProjectOpen, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	default:
		return false
	}
}

// Project represents a business-sponsored project students get assigned to
type Project struct {
	ID                     uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	OwnerID                uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Title                  string         `json:"title" gorm:"type:text;not null"`
	Description            string         `json:"description" gorm:"type:text;not null"`
	Domain                 ProjectDomain  `json:"domain" gorm:"type:text;not null"`
	RequiredLevel          Level          `json:"required_level" gorm:"type:text;not null;default:beginner"`
	MinScoreRequired       int            `json:"min_score_required" gorm:"not null;default:0"`
	Status                 ProjectStatus  `json:"status" gorm:"type:text;not null;default:draft;index"`
	MinTeamSize            int            `json:"min_team_size" gorm:"not null;default:1"`
	MaxTeamSize            int            `json:"max_team_size" gorm:"not null;default:1"`
	EstimatedDurationWeeks int            `json:"estimated_duration_weeks" gorm:"not null;default:1"`
	Metadata               map[string]any `json:"metadata,omitempty" gorm:"serializer:json"`
	Milestones             []Milestone    `json:"milestones,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// Validate checks field-level invariants: enum membership, required text
// fields and min_team_size <= max_team_size.
func (p *Project) Validate() error {
	if p.Title == "" {
		return missingField("title")
	}
	if p.Description == "" {
		return missingField("description")
	}
	if !p.Domain.Valid() {
		return invalidEnum("domain", string(p.Domain), "frontend, backend")
	}
	if !p.RequiredLevel.Valid() {
		return invalidEnum("required_level", string(p.RequiredLevel), "beginner, intermediate, advanced")
	}
	if !p.Status.Valid() {
		return invalidEnum("status", string(p.Status), "draft, open, in_progress, completed, cancelled")
	}
	if p.MinScoreRequired < 0 {
		return invalidField("min_score_required", "must be zero or greater")
	}
	if p.MinTeamSize < 1 {
		return invalidField("min_team_size", "must be at least 1")
	}
	if p.MaxTeamSize < 1 {
		return invalidField("max_team_size", "must be at least 1")
	}
	if p.MinTeamSize > p.MaxTeamSize {
		return invalidField("min_team_size", "must not exceed max_team_size")
	}
	if p.EstimatedDurationWeeks < 1 {
		return invalidField("estimated_duration_weeks", "must be at least 1")
	}
	return nil
}
