package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler    projectHandler
	assignmentHandler assignmentHandler
	milestoneHandler  milestoneHandler
	portfolioHandler  portfolioHandler
	adminHandler      adminHandler
	questionHandler   questionHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Message string `json:"message" example:"project not found"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}
