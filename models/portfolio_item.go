package models

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioItem is a public-facing artifact derived from a completed
// assignment. One item per source assignment.
type PortfolioItem struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	StudentID          uuid.UUID      `json:"student_id" gorm:"type:uuid;not null;index"`
	SourceAssignmentID uuid.UUID      `json:"source_assignment_id" gorm:"type:uuid;not null;uniqueIndex"`
	ProjectID          uuid.UUID      `json:"project_id" gorm:"type:uuid;not null"`
	Title              string         `json:"title" gorm:"type:text;not null"`
	Description        string         `json:"description" gorm:"type:text"`
	GithubURL          *string        `json:"github_url,omitempty" gorm:"type:text"`
	LiveDemoURL        *string        `json:"live_demo_url,omitempty" gorm:"type:text"`
	Score              *int           `json:"score,omitempty"`
	Feedback           *string        `json:"feedback,omitempty" gorm:"type:text"`
	IsPublic           bool           `json:"is_public" gorm:"not null;default:true"`
	Metadata           map[string]any `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (p *PortfolioItem) Validate() error {
	if p.Title == "" {
		return missingField("title")
	}
	if p.Score != nil && *p.Score < 0 {
		return invalidField("score", "must be zero or greater")
	}
	return nil
}
