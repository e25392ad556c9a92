package api

import (
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts all routes. Everything except /metrics requires a valid
// bearer token; student-only and admin-only routes are additionally guarded
// by role groups, while business/admin ownership is enforced per handler
// through the capability checks.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, limiter *RedisLimiter, submitLimit int, submitWindow time.Duration) {
	r.Get("/metrics", MetricsHandler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(auth.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Project catalog and lifecycle (business owner or admin)
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects", handlers.projectHandler.getProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())
		r.Post("/projects/{projectID}/status", handlers.projectHandler.setProjectStatus())

		// Milestone definitions on an owned project
		r.Get("/projects/{projectID}/milestones", handlers.milestoneHandler.getProjectMilestones())
		r.Post("/projects/{projectID}/milestones", handlers.milestoneHandler.createMilestone())
		r.Put("/projects/{projectID}/milestones/{milestoneID}", handlers.milestoneHandler.updateMilestone())
		r.Delete("/projects/{projectID}/milestones/{milestoneID}", handlers.milestoneHandler.deleteMilestone())

		// Assignment issuing and closure (business owner or admin)
		r.Get("/projects/{projectID}/assignments", handlers.assignmentHandler.getProjectAssignments())
		r.Post("/projects/{projectID}/assignments", handlers.assignmentHandler.inviteStudent())
		r.Post("/projects/assignments/{assignmentID}/complete", handlers.assignmentHandler.completeAssignment())

		// Student-side assignment workflow
		r.Group(func(r chi.Router) {
			r.Use(auth.requireRole(models.RoleStudent))

			r.Get("/projects/assignments", handlers.assignmentHandler.getOwnAssignments())
			r.Post("/projects/assignments/{assignmentID}/accept", handlers.assignmentHandler.acceptInvitation())
			r.Post("/projects/assignments/{assignmentID}/decline", handlers.assignmentHandler.declineInvitation())
			r.Post("/projects/assignments/{assignmentID}/feedback", handlers.assignmentHandler.addStudentFeedback())
			r.Get("/projects/assignments/{assignmentID}/milestones", handlers.milestoneHandler.getAssignmentMilestones())
			r.With(rateLimitMiddleware(limiter, submitLimit, submitWindow)).
				Post("/projects/assignments/{assignmentID}/milestones/{milestoneID}/submit", handlers.milestoneHandler.submitMilestoneWork())
			r.Post("/projects/assignments/{assignmentID}/portfolio", handlers.portfolioHandler.publishToPortfolio())

			r.Get("/student/portfolios", handlers.portfolioHandler.getOwnPortfolio())
			r.Post("/student/portfolios", handlers.portfolioHandler.createPortfolioItem())
			r.Put("/student/portfolios/{itemID}", handlers.portfolioHandler.updatePortfolioItem())
			r.Delete("/student/portfolios/{itemID}", handlers.portfolioHandler.deletePortfolioItem())
			r.Post("/student/portfolios/{itemID}/visibility", handlers.portfolioHandler.toggleVisibility())
		})

		// Admin review queue and question bank
		r.Group(func(r chi.Router) {
			r.Use(auth.requireRole(models.RoleAdmin))

			r.Get("/admin/projects/milestone-submissions", handlers.adminHandler.getSubmissionQueue())
			r.Post("/admin/projects/milestone-submissions/{submissionID}/review", handlers.adminHandler.reviewSubmission())

			r.Get("/admin/questions", handlers.questionHandler.getQuestions())
			r.Post("/admin/questions", handlers.questionHandler.createQuestion())
			r.Put("/admin/questions/{questionID}", handlers.questionHandler.updateQuestion())
			r.Delete("/admin/questions/{questionID}", handlers.questionHandler.deleteQuestion())
		})
	})
}
