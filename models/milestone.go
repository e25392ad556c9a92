package models

import (
	"time"

	"github.com/google/uuid"
)

const maxMilestoneTitleLength = 150

// Milestone is an ordered checkpoint defined on a project and submitted
// against per assignment. order_index is a display ordering, not a hard key.
type Milestone struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"type:text;not null"`
	Description string     `json:"description" gorm:"type:text"`
	OrderIndex  int        `json:"order_index" gorm:"not null;default:1"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsRequired  bool       `json:"is_required" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (m *Milestone) Validate() error {
	if m.Title == "" {
		return missingField("title")
	}
	if len(m.Title) > maxMilestoneTitleLength {
		return invalidField("title", "must be 150 characters or fewer")
	}
	if m.OrderIndex < 1 {
		return invalidField("order_index", "must be at least 1")
	}
	return nil
}
