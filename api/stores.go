package api

import (
	"context"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
)

// Store interfaces are defined on the consumer side so handlers can be
// exercised against in-memory fakes. The database package's repos are the
// production implementations.

type ProjectStore interface {
	FindByOwner(ownerID uuid.UUID, status models.ProjectStatus) ([]*models.Project, error)
	FindByID(id uuid.UUID) (*models.Project, error)
	Add(project *models.Project) error
	Update(project *models.Project) error
	UpdateStatus(id uuid.UUID, status models.ProjectStatus) (bool, error)
	DeleteWithMilestones(id uuid.UUID) error
}

type AssignmentStore interface {
	Add(assignment *models.Assignment) error
	FindByID(id uuid.UUID) (*models.Assignment, error)
	FindNonDeclined(projectID, studentID uuid.UUID) (*models.Assignment, error)
	FindByProject(projectID uuid.UUID) ([]*models.Assignment, error)
	FindByStudent(studentID uuid.UUID, status models.AssignmentStatus) ([]*models.Assignment, error)
	TransitionStatus(id uuid.UUID, from []models.AssignmentStatus, to models.AssignmentStatus, extra map[string]any) (bool, error)
	SetStudentFeedback(id uuid.UUID, feedback *string, rating *int) (bool, error)
}

type MilestoneStore interface {
	FindByProject(projectID uuid.UUID) ([]*models.Milestone, error)
	FindByID(id uuid.UUID) (*models.Milestone, error)
	Add(milestone *models.Milestone) error
	Update(milestone *models.Milestone) error
	Delete(id uuid.UUID) error
}

type SubmissionStore interface {
	Submit(submission *models.MilestoneSubmission) (*models.MilestoneSubmission, error)
	FindByID(id uuid.UUID) (*models.MilestoneSubmission, error)
	FindByAssignment(assignmentID uuid.UUID) ([]*models.MilestoneSubmission, error)
	FindForAdmin(status models.SubmissionStatus, projectID *uuid.UUID) ([]*models.MilestoneSubmission, error)
	Review(id uuid.UUID, expectedVersion int, status models.SubmissionStatus, feedback *string, reviewerID uuid.UUID) (bool, error)
}

type PortfolioStore interface {
	FindByStudent(studentID uuid.UUID) ([]*models.PortfolioItem, error)
	FindByID(id uuid.UUID) (*models.PortfolioItem, error)
	FindByAssignment(assignmentID uuid.UUID) (*models.PortfolioItem, error)
	Add(item *models.PortfolioItem) error
	Update(item *models.PortfolioItem) error
	Delete(id uuid.UUID) error
}

type QuestionStore interface {
	FindAll(level models.Level, domain models.ProjectDomain) ([]*models.Question, error)
	FindByID(id uuid.UUID) (*models.Question, error)
	Add(question *models.Question) error
	Update(question *models.Question) error
	Delete(id uuid.UUID) error
}

// IdentityDirectory is the external identity collaborator.
type IdentityDirectory interface {
	UserHasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
}

// InviteNotifier delivers best-effort invitation notifications.
type InviteNotifier interface {
	AssignmentInvited(assignment models.Assignment)
}

// Stores bundles everything the handlers depend on.
type Stores struct {
	Projects    ProjectStore
	Assignments AssignmentStore
	Milestones  MilestoneStore
	Submissions SubmissionStore
	Portfolios  PortfolioStore
	Questions   QuestionStore
	Identity    IdentityDirectory
	Notifier    InviteNotifier
}
