package models

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionMCQ   QuestionType = "mcq"
	QuestionCode  QuestionType = "code"
	QuestionShort QuestionType = "short"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMCQ, QuestionCode, QuestionShort:
		return true
	default:
		return false
	}
}

// Question is placement-assessment reference data managed by admins.
type Question struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Level        Level         `json:"level" gorm:"type:text;not null;index"`
	Domain       ProjectDomain `json:"domain" gorm:"type:text;not null;index"`
	QuestionText string        `json:"question_text" gorm:"type:text;not null"`
	Type         QuestionType  `json:"type" gorm:"type:text;not null"`
	Difficulty   int           `json:"difficulty" gorm:"not null;default:1"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (q *Question) Validate() error {
	if q.QuestionText == "" {
		return missingField("question_text")
	}
	if !q.Level.Valid() {
		return invalidEnum("level", string(q.Level), "beginner, intermediate, advanced")
	}
	if !q.Domain.Valid() {
		return invalidEnum("domain", string(q.Domain), "frontend, backend")
	}
	if !q.Type.Valid() {
		return invalidEnum("type", string(q.Type), "mcq, code, short")
	}
	if q.Difficulty < 1 || q.Difficulty > 5 {
		return invalidField("difficulty", "must be between 1 and 5")
	}
	return nil
}
