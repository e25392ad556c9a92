package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/errs"
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type assignmentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	assignments AssignmentStore
	projects    ProjectStore
	identity    IdentityDirectory
	notifier    InviteNotifier
}

func newAssignmentHandler(assignments AssignmentStore, projects ProjectStore, identity IdentityDirectory, notifier InviteNotifier) assignmentHandler {
	logger := log.With().Str("handlerName", "assignmentHandler").Logger()

	return assignmentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		assignments: assignments,
		projects:    projects,
		identity:    identity,
		notifier:    notifier,
	}
}

type inviteStudentRequest struct {
	UserID   uuid.UUID      `json:"user_id"`
	TeamID   *uuid.UUID     `json:"team_id"`
	Metadata map[string]any `json:"metadata"`
}

type feedbackRequest struct {
	Feedback *string `json:"feedback"`
	Rating   *int    `json:"rating"`
}

// inviteStudent creates a pending assignment for a student on the owner's
// project. The student id must be known to the identity service; a
// non-declined assignment for the same pair blocks a second invite.
// @Summary Invite student
// @Description Creates an invited assignment for a student on the project
// @Tags Assignments
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param invite body object true "Student to invite"
// @Success 201 {object} models.Assignment "Created assignment"
// @Failure 409 {object} ErrorResponse "Conflict - Student already has a non-declined assignment"
// @Failure 422 {object} ErrorResponse "Validation failure - Unknown student"
// @Router /projects/{projectID}/assignments [post]
func (h assignmentHandler) inviteStudent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, project, loadErr := h.loadOwnedProject(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		var req inviteStudentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.UserID == uuid.Nil {
			h.responder.WriteError(w, errs.NewValidationFieldError("user_id", "is required"))
			return
		}

		isStudent, err := h.identity.UserHasRole(r.Context(), req.UserID, models.RoleStudent)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("identity lookup failed", err))
			return
		}
		if !isStudent {
			h.responder.WriteError(w, errs.NewValidationFieldError("user_id", "does not reference a known student"))
			return
		}

		existing, err := h.assignments.FindNonDeclined(project.ID, req.UserID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "assignment", err))
			return
		}
		if existing != nil {
			h.responder.WriteError(w, errs.NewConflictError("student already has an assignment for this project"))
			return
		}

		assignment := models.Assignment{
			ProjectID: project.ID,
			StudentID: req.UserID,
			TeamID:    req.TeamID,
			Status:    models.AssignmentInvited,
			Metadata:  req.Metadata,
		}
		if err := h.assignments.Add(&assignment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "assignment", err))
			return
		}

		if h.notifier != nil {
			go h.notifier.AssignmentInvited(assignment)
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, assignment)
	}
}

// getProjectAssignments lists all assignments of one owned project.
// @Summary List project assignments
// @Tags Assignments
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]any "Assignments with total count"
// @Router /projects/{projectID}/assignments [get]
func (h assignmentHandler) getProjectAssignments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, project, loadErr := h.loadOwnedProject(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		assignments, err := h.assignments.FindByProject(project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "assignments", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"assignments": assignments,
			"total":       len(assignments),
		})
	}
}

// getOwnAssignments lists the calling student's assignments, optionally
// filtered by status.
// @Summary List own assignments
// @Tags Assignments
// @Produce json
// @Param status query string false "Filter by assignment status"
// @Success 200 {object} map[string]any "Assignments with total count"
// @Router /projects/assignments [get]
func (h assignmentHandler) getOwnAssignments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ctxGetActor(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		status := models.AssignmentStatus(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			h.responder.WriteError(w, errs.NewValidationFieldError("status", "must be one of: invited, accepted, declined, active, completed"))
			return
		}

		assignments, err := h.assignments.FindByStudent(actor.ID, status)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "assignments", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"assignments": assignments,
			"total":       len(assignments),
		})
	}
}

// acceptInvitation moves the student's own assignment invited -> accepted.
// The write is status-guarded: of two racing responses exactly one wins.
// @Summary Accept invitation
// @Tags Assignments
// @Produce json
// @Param assignmentID path string true "Assignment ID" format(uuid)
// @Success 200 {object} models.Assignment "Accepted assignment"
// @Failure 409 {object} ErrorResponse "Conflict - Assignment is no longer invited"
// @Router /projects/assignments/{assignmentID}/accept [post]
func (h assignmentHandler) acceptInvitation() http.HandlerFunc {
	return h.respondToInvitation(models.AssignmentAccepted)
}

// declineInvitation moves the student's own assignment invited -> declined,
// a terminal state.
// @Summary Decline invitation
// @Tags Assignments
// @Produce json
// @Param assignmentID path string true "Assignment ID" format(uuid)
// @Success 200 {object} models.Assignment "Declined assignment"
// @Failure 409 {object} ErrorResponse "Conflict - Assignment is no longer invited"
// @Router /projects/assignments/{assignmentID}/decline [post]
func (h assignmentHandler) declineInvitation() http.HandlerFunc {
	return h.respondToInvitation(models.AssignmentDeclined)
}

func (h assignmentHandler) respondToInvitation(target models.AssignmentStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, assignment, loadErr := h.loadOwnAssignment(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		if !assignment.Status.CanTransitionTo(target) {
			h.responder.WriteError(w, errs.NewInvalidStateError("assignment is not awaiting a response"))
			return
		}

		extra := map[string]any{}
		if target == models.AssignmentAccepted {
			extra["assigned_at"] = time.Now()
		}

		won, err := h.assignments.TransitionStatus(assignment.ID, []models.AssignmentStatus{models.AssignmentInvited}, target, extra)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update status of", "assignment", err))
			return
		}
		if !won {
			// a concurrent response got there first
			h.responder.WriteError(w, errs.NewInvalidStateError("assignment is not awaiting a response"))
			return
		}

		updated, err := h.assignments.FindByID(assignment.ID)
		if err != nil || updated == nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "assignment", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// completeAssignment is the owning business closing out an accepted or
// active assignment, optionally recording feedback and a 1-5 rating.
// @Summary Complete assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID" format(uuid)
// @Param completion body object true "Optional feedback and rating"
// @Success 200 {object} models.Assignment "Completed assignment"
// @Failure 409 {object} ErrorResponse "Conflict - Assignment is not accepted or active"
// @Failure 422 {object} ErrorResponse "Validation failure - Rating out of range"
// @Router /projects/assignments/{assignmentID}/complete [post]
func (h assignmentHandler) completeAssignment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ctxGetActor(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		assignmentID, err := uuid.Parse(chi.URLParam(r, "assignmentID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid assignmentID"))
			return
		}

		assignment, err := h.assignments.FindByID(assignmentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "assignment", err))
			return
		}
		if assignment == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("assignment"))
			return
		}

		project, err := h.projects.FindByID(assignment.ProjectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil || !canManageProject(actor, project) {
			h.responder.WriteError(w, errs.NewForbiddenError("you do not manage this assignment"))
			return
		}

		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if err := models.ValidateRating("rating", req.Rating); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !assignment.Status.CanTransitionTo(models.AssignmentCompleted) {
			h.responder.WriteError(w, errs.NewInvalidStateError("assignment must be accepted before completion"))
			return
		}

		extra := map[string]any{
			"feedback":     req.Feedback,
			"rating":       req.Rating,
			"completed_at": time.Now(),
		}
		won, err := h.assignments.TransitionStatus(assignment.ID, models.CompletableStatuses(), models.AssignmentCompleted, extra)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update status of", "assignment", err))
			return
		}
		if !won {
			h.responder.WriteError(w, errs.NewInvalidStateError("assignment must be accepted before completion"))
			return
		}

		updated, err := h.assignments.FindByID(assignment.ID)
		if err != nil || updated == nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "assignment", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// addStudentFeedback records the student's counter-feedback on a completed
// assignment. A later call overwrites the earlier one.
// @Summary Add student feedback
// @Tags Assignments
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID" format(uuid)
// @Param feedback body object true "Feedback and optional rating"
// @Success 200 {object} models.Assignment "Updated assignment"
// @Failure 409 {object} ErrorResponse "Conflict - Assignment is not completed"
// @Router /projects/assignments/{assignmentID}/feedback [post]
func (h assignmentHandler) addStudentFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, assignment, loadErr := h.loadOwnAssignment(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if err := models.ValidateRating("rating", req.Rating); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		set, err := h.assignments.SetStudentFeedback(assignment.ID, req.Feedback, req.Rating)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "assignment", err))
			return
		}
		if !set {
			h.responder.WriteError(w, errs.NewInvalidStateError("assignment must be completed before student feedback"))
			return
		}

		updated, err := h.assignments.FindByID(assignment.ID)
		if err != nil || updated == nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "assignment", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// loadOwnedProject resolves {projectID} and checks the actor manages it.
func (h assignmentHandler) loadOwnedProject(r *http.Request) (models.Actor, *models.Project, error) {
	actor, ok := ctxGetActor(r.Context())
	if !ok {
		return models.Actor{}, nil, errs.Unauthorized
	}

	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return actor, nil, errs.NewBadRequestError("invalid projectID")
	}

	project, err := h.projects.FindByID(projectID)
	if err != nil {
		return actor, nil, wrapDatabaseError("find", "project", err)
	}
	if project == nil {
		return actor, nil, errs.NewNotFoundError("project")
	}
	if !canManageProject(actor, project) {
		return actor, nil, errs.NewForbiddenError("you do not manage this project")
	}

	return actor, project, nil
}

// loadOwnAssignment resolves {assignmentID} and checks it belongs to the
// calling student.
func (h assignmentHandler) loadOwnAssignment(r *http.Request) (models.Actor, *models.Assignment, error) {
	actor, ok := ctxGetActor(r.Context())
	if !ok {
		return models.Actor{}, nil, errs.Unauthorized
	}

	assignmentID, err := uuid.Parse(chi.URLParam(r, "assignmentID"))
	if err != nil {
		return actor, nil, errs.NewBadRequestError("invalid assignmentID")
	}

	assignment, err := h.assignments.FindByID(assignmentID)
	if err != nil {
		return actor, nil, wrapDatabaseError("find", "assignment", err)
	}
	if assignment == nil {
		return actor, nil, errs.NewNotFoundError("assignment")
	}
	if !canActOnAssignment(actor, assignment) {
		return actor, nil, errs.NewForbiddenError("assignment belongs to another student")
	}

	return actor, assignment, nil
}
