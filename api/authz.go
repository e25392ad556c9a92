package api

import (
	"github.com/SkillForge-Platform/SkillForge/backend/models"
)

// Capability checks: (actor, resource) -> bool, applied at the handler
// boundary so the ownership rules live in one place.

// canManageProject allows the owning business or any admin.
func canManageProject(actor models.Actor, project *models.Project) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RoleBusiness && project.OwnerID == actor.ID
}

// canActOnAssignment allows only the student the assignment was issued to.
func canActOnAssignment(actor models.Actor, assignment *models.Assignment) bool {
	return actor.Role == models.RoleStudent && assignment.BelongsTo(actor.ID)
}

// canManagePortfolioItem allows the owning student or any admin.
func canManagePortfolioItem(actor models.Actor, item *models.PortfolioItem) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RoleStudent && item.StudentID == actor.ID
}
