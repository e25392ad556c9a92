package api

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(stores Stores) *routeHandlers {
	return &routeHandlers{
		projectHandler:    newProjectHandler(stores.Projects),
		assignmentHandler: newAssignmentHandler(stores.Assignments, stores.Projects, stores.Identity, stores.Notifier),
		milestoneHandler:  newMilestoneHandler(stores.Milestones, stores.Submissions, stores.Assignments, stores.Projects),
		portfolioHandler:  newPortfolioHandler(stores.Portfolios, stores.Assignments, stores.Projects),
		adminHandler:      newAdminHandler(stores.Submissions),
		questionHandler:   newQuestionHandler(stores.Questions),
	}
}
