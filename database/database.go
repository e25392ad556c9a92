package database

import (
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"gorm.io/gorm"
)

type Database struct {
	projectRepo    *ProjectRepo
	assignmentRepo *AssignmentRepo
	milestoneRepo  *MilestoneRepo
	submissionRepo *SubmissionRepo
	portfolioRepo  *PortfolioRepo
	questionRepo   *QuestionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:    NewProjectRepo(db),
		assignmentRepo: NewAssignmentRepo(db),
		milestoneRepo:  NewMilestoneRepo(db),
		submissionRepo: NewSubmissionRepo(db),
		portfolioRepo:  NewPortfolioRepo(db),
		questionRepo:   NewQuestionRepo(db),
	}
}

// Migrate applies the schema for every entity this service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.Assignment{},
		&models.Milestone{},
		&models.MilestoneSubmission{},
		&models.PortfolioItem{},
		&models.Question{},
	)
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) AssignmentRepo() *AssignmentRepo {
	return d.assignmentRepo
}

func (d Database) MilestoneRepo() *MilestoneRepo {
	return d.milestoneRepo
}

func (d Database) SubmissionRepo() *SubmissionRepo {
	return d.submissionRepo
}

func (d Database) PortfolioRepo() *PortfolioRepo {
	return d.portfolioRepo
}

func (d Database) QuestionRepo() *QuestionRepo {
	return d.questionRepo
}
