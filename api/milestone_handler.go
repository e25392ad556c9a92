package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/database"
	"github.com/SkillForge-Platform/SkillForge/backend/errs"
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type milestoneHandler struct {
	responder   Responder
	logger      zerolog.Logger
	milestones  MilestoneStore
	submissions SubmissionStore
	assignments AssignmentStore
	projects    ProjectStore
}

func newMilestoneHandler(milestones MilestoneStore, submissions SubmissionStore, assignments AssignmentStore, projects ProjectStore) milestoneHandler {
	logger := log.With().Str("handlerName", "milestoneHandler").Logger()

	return milestoneHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		milestones:  milestones,
		submissions: submissions,
		assignments: assignments,
		projects:    projects,
	}
}

type milestoneRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	OrderIndex  *int       `json:"order_index"`
	DueDate     *time.Time `json:"due_date"`
	IsRequired  *bool      `json:"is_required"`
}

type submitWorkRequest struct {
	AnswerText    *string `json:"answer_text"`
	AttachmentURL *string `json:"attachment_url"`
}

// MilestoneWithSubmission is the student view of one milestone: the
// checkpoint plus the student's own submission against it, if any.
type MilestoneWithSubmission struct {
	Milestone  models.Milestone            `json:"milestone"`
	Submission *models.MilestoneSubmission `json:"submission,omitempty"`
}

// getProjectMilestones lists a project's milestones in display order.
// @Summary List project milestones
// @Tags Milestones
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]any "Milestones with total count"
// @Router /projects/{projectID}/milestones [get]
func (h milestoneHandler) getProjectMilestones() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, loadErr := h.loadManagedProject(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		milestones, err := h.milestones.FindByProject(project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "milestones", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"milestones": milestones,
			"total":      len(milestones),
		})
	}
}

// createMilestone adds a checkpoint to an owned project.
// @Summary Create milestone
// @Tags Milestones
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param milestone body object true "Milestone data"
// @Success 201 {object} models.Milestone "Created milestone"
// @Failure 422 {object} ErrorResponse "Validation failure"
// @Router /projects/{projectID}/milestones [post]
func (h milestoneHandler) createMilestone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, loadErr := h.loadManagedProject(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		var req milestoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		milestone := models.Milestone{
			ProjectID:  project.ID,
			OrderIndex: 1,
		}
		if req.Title != nil {
			milestone.Title = *req.Title
		}
		if req.Description != nil {
			milestone.Description = *req.Description
		}
		if req.OrderIndex != nil {
			milestone.OrderIndex = *req.OrderIndex
		}
		milestone.DueDate = req.DueDate
		if req.IsRequired != nil {
			milestone.IsRequired = *req.IsRequired
		}

		if err := milestone.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.milestones.Add(&milestone); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "milestone", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, milestone)
	}
}

// updateMilestone applies a partial update to one milestone of an owned project.
// @Summary Update milestone
// @Tags Milestones
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param milestoneID path string true "Milestone ID" format(uuid)
// @Param milestone body object true "Fields to update"
// @Success 200 {object} models.Milestone "Updated milestone"
// @Failure 404 {object} ErrorResponse "Not Found - Milestone not found on this project"
// @Router /projects/{projectID}/milestones/{milestoneID} [put]
func (h milestoneHandler) updateMilestone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, milestone, loadErr := h.loadProjectMilestone(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		var req milestoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Title != nil {
			milestone.Title = *req.Title
		}
		if req.Description != nil {
			milestone.Description = *req.Description
		}
		if req.OrderIndex != nil {
			milestone.OrderIndex = *req.OrderIndex
		}
		if req.DueDate != nil {
			milestone.DueDate = req.DueDate
		}
		if req.IsRequired != nil {
			milestone.IsRequired = *req.IsRequired
		}

		if err := milestone.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.milestones.Update(milestone); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "milestone", err))
			return
		}

		h.responder.WriteJSON(w, milestone)
	}
}

// deleteMilestone removes a milestone; blocked while submissions reference it.
// @Summary Delete milestone
// @Tags Milestones
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param milestoneID path string true "Milestone ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 409 {object} ErrorResponse "Conflict - Submissions still reference the milestone"
// @Router /projects/{projectID}/milestones/{milestoneID} [delete]
func (h milestoneHandler) deleteMilestone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, milestone, loadErr := h.loadProjectMilestone(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		if err := h.milestones.Delete(milestone.ID); err != nil {
			if errors.Is(err, database.ErrHasSubmissions) {
				h.responder.WriteError(w, errs.NewConflictError("milestone has submissions and cannot be deleted"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("delete", "milestone", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"message": "milestone deleted successfully",
		})
	}
}

// getAssignmentMilestones is the student view: the project's milestones with
// the student's own submissions attached.
// @Summary List assignment milestones
// @Description Returns the project's milestones with the student's own submissions attached
// @Tags Milestones
// @Produce json
// @Param assignmentID path string true "Assignment ID" format(uuid)
// @Success 200 {object} map[string]any "Milestones with submissions and total count"
// @Router /projects/assignments/{assignmentID}/milestones [get]
func (h milestoneHandler) getAssignmentMilestones() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignment, loadErr := h.loadOwnAssignment(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		milestones, err := h.milestones.FindByProject(assignment.ProjectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "milestones", err))
			return
		}

		submissions, err := h.submissions.FindByAssignment(assignment.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "submissions", err))
			return
		}
		byMilestone := make(map[uuid.UUID]*models.MilestoneSubmission, len(submissions))
		for _, s := range submissions {
			byMilestone[s.MilestoneID] = s
		}

		view := make([]MilestoneWithSubmission, 0, len(milestones))
		for _, m := range milestones {
			view = append(view, MilestoneWithSubmission{
				Milestone:  *m,
				Submission: byMilestone[m.ID],
			})
		}

		h.responder.WriteJSON(w, map[string]any{
			"milestones": view,
			"total":      len(view),
		})
	}
}

// submitMilestoneWork records the student's work for one milestone of their
// assignment. Requires answer text or an attachment URL; a resubmission
// overwrites the prior one and returns the submission to pending.
// @Summary Submit milestone work
// @Tags Milestones
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID" format(uuid)
// @Param milestoneID path string true "Milestone ID" format(uuid)
// @Param submission body object true "Answer text or attachment URL"
// @Success 201 {object} models.MilestoneSubmission "Recorded submission"
// @Failure 409 {object} ErrorResponse "Conflict - Assignment is not accepted or active"
// @Failure 422 {object} ErrorResponse "Validation failure - Missing work or bad attachment URL"
// @Router /projects/assignments/{assignmentID}/milestones/{milestoneID}/submit [post]
func (h milestoneHandler) submitMilestoneWork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignment, loadErr := h.loadOwnAssignment(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		if assignment.Status != models.AssignmentAccepted && assignment.Status != models.AssignmentActive {
			h.responder.WriteError(w, errs.NewInvalidStateError("assignment must be accepted before submitting milestones"))
			return
		}

		milestoneID, err := uuid.Parse(chi.URLParam(r, "milestoneID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid milestoneID"))
			return
		}
		milestone, err := h.milestones.FindByID(milestoneID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "milestone", err))
			return
		}
		if milestone == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("milestone"))
			return
		}
		if milestone.ProjectID != assignment.ProjectID {
			h.responder.WriteError(w, errs.NewValidationError("milestone does not belong to this project assignment"))
			return
		}

		var req submitWorkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		submission := models.MilestoneSubmission{
			AssignmentID:  assignment.ID,
			MilestoneID:   milestone.ID,
			AnswerText:    req.AnswerText,
			AttachmentURL: req.AttachmentURL,
		}
		if err := submission.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		saved, err := h.submissions.Submit(&submission)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "submission", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, saved)
	}
}

func (h milestoneHandler) loadManagedProject(r *http.Request) (*models.Project, error) {
	actor, ok := ctxGetActor(r.Context())
	if !ok {
		return nil, errs.Unauthorized
	}

	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid projectID")
	}

	project, err := h.projects.FindByID(projectID)
	if err != nil {
		return nil, wrapDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError("project")
	}
	if !canManageProject(actor, project) {
		return nil, errs.NewForbiddenError("you do not manage this project")
	}
	return project, nil
}

// loadProjectMilestone also guards that the milestone belongs to the
// project named in the path.
func (h milestoneHandler) loadProjectMilestone(r *http.Request) (*models.Project, *models.Milestone, error) {
	project, err := h.loadManagedProject(r)
	if err != nil {
		return nil, nil, err
	}

	milestoneID, err := uuid.Parse(chi.URLParam(r, "milestoneID"))
	if err != nil {
		return nil, nil, errs.NewBadRequestError("invalid milestoneID")
	}

	milestone, err := h.milestones.FindByID(milestoneID)
	if err != nil {
		return nil, nil, wrapDatabaseError("find", "milestone", err)
	}
	if milestone == nil || milestone.ProjectID != project.ID {
		return nil, nil, errs.NewNotFoundError("milestone")
	}
	return project, milestone, nil
}

func (h milestoneHandler) loadOwnAssignment(r *http.Request) (*models.Assignment, error) {
	actor, ok := ctxGetActor(r.Context())
	if !ok {
		return nil, errs.Unauthorized
	}

	assignmentID, err := uuid.Parse(chi.URLParam(r, "assignmentID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid assignmentID")
	}

	assignment, err := h.assignments.FindByID(assignmentID)
	if err != nil {
		return nil, wrapDatabaseError("find", "assignment", err)
	}
	if assignment == nil {
		return nil, errs.NewNotFoundError("assignment")
	}
	if !canActOnAssignment(actor, assignment) {
		return nil, errs.NewForbiddenError("assignment belongs to another student")
	}
	return assignment, nil
}
