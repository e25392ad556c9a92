package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SkillForge-Platform/SkillForge/backend/database"
	"github.com/SkillForge-Platform/SkillForge/backend/errs"
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  ProjectStore
}

func newProjectHandler(projects ProjectStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

type createProjectRequest struct {
	Title                  string               `json:"title"`
	Description            string               `json:"description"`
	Domain                 models.ProjectDomain `json:"domain"`
	RequiredLevel          models.Level         `json:"required_level"`
	MinScoreRequired       *int                 `json:"min_score_required"`
	Status                 models.ProjectStatus `json:"status"`
	MinTeamSize            *int                 `json:"min_team_size"`
	MaxTeamSize            *int                 `json:"max_team_size"`
	EstimatedDurationWeeks *int                 `json:"estimated_duration_weeks"`
	Metadata               map[string]any       `json:"metadata"`
}

type updateProjectRequest struct {
	Title                  *string               `json:"title"`
	Description            *string               `json:"description"`
	Domain                 *models.ProjectDomain `json:"domain"`
	RequiredLevel          *models.Level         `json:"required_level"`
	MinScoreRequired       *int                  `json:"min_score_required"`
	Status                 *models.ProjectStatus `json:"status"`
	MinTeamSize            *int                  `json:"min_team_size"`
	MaxTeamSize            *int                  `json:"max_team_size"`
	EstimatedDurationWeeks *int                  `json:"estimated_duration_weeks"`
	Metadata               map[string]any        `json:"metadata"`
}

// createProject creates a new project owned by the calling business actor
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body createProjectRequest true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 422 {object} ErrorResponse "Validation failure"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ctxGetActor(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}
		if actor.Role != models.RoleBusiness {
			h.responder.WriteError(w, errs.NewForbiddenError("only business accounts can create projects"))
			return
		}

		var req createProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		project := models.Project{
			OwnerID:                actor.ID,
			Title:                  req.Title,
			Description:            req.Description,
			Domain:                 req.Domain,
			RequiredLevel:          req.RequiredLevel,
			Status:                 models.ProjectDraft,
			MinTeamSize:            1,
			MaxTeamSize:            1,
			EstimatedDurationWeeks: 1,
			Metadata:               req.Metadata,
		}
		if project.RequiredLevel == "" {
			project.RequiredLevel = models.LevelBeginner
		}
		if req.Status != "" {
			project.Status = req.Status
		}
		if req.MinScoreRequired != nil {
			project.MinScoreRequired = *req.MinScoreRequired
		}
		if req.MinTeamSize != nil {
			project.MinTeamSize = *req.MinTeamSize
		}
		if req.MaxTeamSize != nil {
			project.MaxTeamSize = *req.MaxTeamSize
		}
		if req.EstimatedDurationWeeks != nil {
			project.EstimatedDurationWeeks = *req.EstimatedDurationWeeks
		}

		if err := project.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Add(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// getProjects retrieves the calling owner's projects, optionally filtered by status
// @Summary List own projects
// @Tags Projects
// @Produce json
// @Param status query string false "Project status filter"
// @Success 200 {array} models.Project "Projects"
// @Router /projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ctxGetActor(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		status := models.ProjectStatus(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			h.responder.WriteError(w, errs.NewValidationFieldError("status", "must be one of: draft, open, in_progress, completed, cancelled"))
			return
		}

		projects, err := h.projects.FindByOwner(actor.ID, status)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"projects": projects,
			"total":    len(projects),
		})
	}
}

// getProject retrieves a single project the actor may manage
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, project, err := h.loadManagedProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// updateProject applies a partial update: only supplied fields change
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body updateProjectRequest true "Fields to update"
// @Success 200 {object} models.Project "Updated project"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Failure 422 {object} ErrorResponse "Validation failure"
// @Router /projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, project, loadErr := h.loadManagedProject(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		var req updateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Title != nil {
			project.Title = *req.Title
		}
		if req.Description != nil {
			project.Description = *req.Description
		}
		if req.Domain != nil {
			project.Domain = *req.Domain
		}
		if req.RequiredLevel != nil {
			project.RequiredLevel = *req.RequiredLevel
		}
		if req.MinScoreRequired != nil {
			project.MinScoreRequired = *req.MinScoreRequired
		}
		if req.Status != nil {
			project.Status = *req.Status
		}
		if req.MinTeamSize != nil {
			project.MinTeamSize = *req.MinTeamSize
		}
		if req.MaxTeamSize != nil {
			project.MaxTeamSize = *req.MaxTeamSize
		}
		if req.EstimatedDurationWeeks != nil {
			project.EstimatedDurationWeeks = *req.EstimatedDurationWeeks
		}
		if req.Metadata != nil {
			project.Metadata = req.Metadata
		}

		if err := project.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Update(project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// setProjectStatus moves the project to any status in the allowed enum. The
// owning business decides the meaning; no transition graph beyond enum
// membership is enforced.
// @Summary Set project status
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param status body object true "New status"
// @Success 200 {object} models.Project "Updated project"
// @Failure 422 {object} ErrorResponse "Validation failure - Unknown status"
// @Router /projects/{projectID}/status [post]
func (h projectHandler) setProjectStatus() http.HandlerFunc {
	type statusRequest struct {
		Status models.ProjectStatus `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		_, project, loadErr := h.loadManagedProject(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if !req.Status.Valid() {
			h.responder.WriteError(w, errs.NewValidationFieldError("status", "must be one of: draft, open, in_progress, completed, cancelled"))
			return
		}

		updated, err := h.projects.UpdateStatus(project.ID, req.Status)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update status of", "project", err))
			return
		}
		if !updated {
			h.responder.WriteError(w, errs.NewNotFoundError("project"))
			return
		}

		project.Status = req.Status
		h.responder.WriteJSON(w, project)
	}
}

// deleteProject removes a project and its milestones; blocked while any
// assignment references the project
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 409 {object} ErrorResponse "Assignments still reference the project"
// @Router /projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, project, loadErr := h.loadManagedProject(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		if err := h.projects.DeleteWithMilestones(project.ID); err != nil {
			if errors.Is(err, database.ErrHasAssignments) {
				h.responder.WriteError(w, errs.NewConflictError("project has assignments and cannot be deleted"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"message": "project deleted successfully",
		})
	}
}

// loadManagedProject resolves {projectID}, loads the project and checks the
// actor may manage it (owning business or admin).
func (h projectHandler) loadManagedProject(r *http.Request) (models.Actor, *models.Project, error) {
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
