package models

import "github.com/google/uuid"

// Role is the actor role assigned by the external identity service.
type Role string

const (
	RoleStudent  Role = "student"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleBusiness, RoleAdmin:
		return true
	default:
		return false
	}
}

// Actor is the authenticated caller performing an action.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
