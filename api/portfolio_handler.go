package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/SkillForge-Platform/SkillForge/backend/errs"
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type portfolioHandler struct {
	responder   Responder
	logger      zerolog.Logger
	portfolios  PortfolioStore
	assignments AssignmentStore
	projects    ProjectStore
}

func newPortfolioHandler(portfolios PortfolioStore, assignments AssignmentStore, projects ProjectStore) portfolioHandler {
	logger := log.With().Str("handlerName", "portfolioHandler").Logger()

	return portfolioHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		portfolios:  portfolios,
		assignments: assignments,
		projects:    projects,
	}
}

type createPortfolioItemRequest struct {
	AssignmentID uuid.UUID      `json:"assignment_id"`
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	GithubURL    *string        `json:"github_url"`
	LiveDemoURL  *string        `json:"live_demo_url"`
	IsPublic     *bool          `json:"is_public"`
	Metadata     map[string]any `json:"metadata"`
}

type updatePortfolioItemRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	GithubURL   *string        `json:"github_url"`
	LiveDemoURL *string        `json:"live_demo_url"`
	IsPublic    *bool          `json:"is_public"`
	Metadata    map[string]any `json:"metadata"`
}

// getOwnPortfolio lists the authenticated student's portfolio items.
// @Summary List own portfolio
// @Tags Portfolio
// @Produce json
// @Success 200 {object} map[string]any "Portfolio items with total count"
// @Router /student/portfolios [get]
func (h portfolioHandler) getOwnPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ctxGetActor(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		items, err := h.portfolios.FindByStudent(actor.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "portfolio items", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"items": items,
			"total": len(items),
		})
	}
}

// createPortfolioItem publishes a completed assignment to the student's
// portfolio. At most one item exists per assignment; a repeat call returns
// the existing item instead of failing.
// @Summary Create portfolio item
// @Description Publishes a completed assignment to the student's portfolio
// @Tags Portfolio
// @Accept json
// @Produce json
// @Param item body createPortfolioItemRequest true "Portfolio item data"
// @Success 201 {object} models.PortfolioItem "Created portfolio item"
// @Failure 409 {object} ErrorResponse "Conflict - Assignment is not completed"
// @Failure 422 {object} ErrorResponse "Validation failure - Missing assignment_id"
// @Router /student/portfolios [post]
func (h portfolioHandler) createPortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPortfolioItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.AssignmentID == uuid.Nil {
			h.responder.WriteError(w, errs.NewValidationFieldError("assignment_id", "is required"))
			return
		}

		h.publishAssignment(w, r, req.AssignmentID, req)
	}
}

// publishToPortfolio is the assignment-scoped variant: the assignment comes
// from the URL and the body only carries overrides.
// @Summary Publish assignment to portfolio
// @Description Publishes the completed assignment named in the URL to the student's portfolio
// @Tags Portfolio
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID" format(uuid)
// @Param item body createPortfolioItemRequest false "Portfolio item overrides"
// @Success 201 {object} models.PortfolioItem "Created portfolio item"
// @Failure 409 {object} ErrorResponse "Conflict - Assignment is not completed"
// @Router /projects/assignments/{assignmentID}/portfolio [post]
func (h portfolioHandler) publishToPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignmentID, err := uuid.Parse(chi.URLParam(r, "assignmentID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid assignmentID"))
			return
		}

		var req createPortfolioItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		h.publishAssignment(w, r, assignmentID, req)
	}
}

// publishAssignment runs the shared publish flow: completed-only guard, one
// item per assignment, defaults from the project and the owner's review.
func (h portfolioHandler) publishAssignment(w http.ResponseWriter, r *http.Request, assignmentID uuid.UUID, req createPortfolioItemRequest) {
	actor, ok := ctxGetActor(r.Context())
	if !ok {
		h.responder.WriteError(w, errs.Unauthorized)
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
	if !canActOnAssignment(actor, assignment) {
		h.responder.WriteError(w, errs.NewForbiddenError("assignment belongs to another student"))
		return
	}
	if assignment.Status != models.AssignmentCompleted {
		h.responder.WriteError(w, errs.NewInvalidStateError("assignment must be completed before adding it to a portfolio"))
		return
	}

	existing, err := h.portfolios.FindByAssignment(assignment.ID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "portfolio item", err))
		return
	}
	if existing != nil {
		h.responder.WriteJSON(w, existing)
		return
	}

	project, err := h.projects.FindByID(assignment.ProjectID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
		return
	}

	item := models.PortfolioItem{
		StudentID:          actor.ID,
		SourceAssignmentID: assignment.ID,
		ProjectID:          assignment.ProjectID,
		Score:              assignment.Rating,
		Feedback:           assignment.Feedback,
		IsPublic:           true,
		Metadata:           req.Metadata,
	}
	if project != nil {
		item.Title = project.Title
		item.Description = project.Description
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	item.GithubURL = req.GithubURL
	item.LiveDemoURL = req.LiveDemoURL
	if req.IsPublic != nil {
		item.IsPublic = *req.IsPublic
	}

	if err := item.Validate(); err != nil {
		h.responder.WriteError(w, err)
		return
	}

	if err := h.portfolios.Add(&item); err != nil {
		h.responder.WriteError(w, wrapDatabaseError("create", "portfolio item", err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.responder.WriteJSON(w, item)
}

// updatePortfolioItem applies a partial update to one of the student's items.
// @Summary Update portfolio item
// @Tags Portfolio
// @Accept json
// @Produce json
// @Param itemID path string true "Portfolio item ID" format(uuid)
// @Param item body updatePortfolioItemRequest true "Fields to update"
// @Success 200 {object} models.PortfolioItem "Updated portfolio item"
// @Failure 404 {object} ErrorResponse "Not Found - Portfolio item not found"
// @Router /student/portfolios/{itemID} [put]
func (h portfolioHandler) updatePortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, loadErr := h.loadOwnItem(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		var req updatePortfolioItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Title != nil {
			item.Title = *req.Title
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.GithubURL != nil {
			item.GithubURL = req.GithubURL
		}
		if req.LiveDemoURL != nil {
			item.LiveDemoURL = req.LiveDemoURL
		}
		if req.IsPublic != nil {
			item.IsPublic = *req.IsPublic
		}
		if req.Metadata != nil {
			item.Metadata = req.Metadata
		}

		if err := item.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.portfolios.Update(item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "portfolio item", err))
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// toggleVisibility flips whether the item appears on the student's public
// profile.
// @Summary Toggle portfolio item visibility
// @Tags Portfolio
// @Produce json
// @Param itemID path string true "Portfolio item ID" format(uuid)
// @Success 200 {object} models.PortfolioItem "Updated portfolio item"
// @Failure 404 {object} ErrorResponse "Not Found - Portfolio item not found"
// @Router /student/portfolios/{itemID}/visibility [post]
func (h portfolioHandler) toggleVisibility() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, loadErr := h.loadOwnItem(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		item.IsPublic = !item.IsPublic
		if err := h.portfolios.Update(item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "portfolio item", err))
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// deletePortfolioItem removes an item from the student's portfolio. The
// underlying assignment is untouched.
// @Summary Delete portfolio item
// @Tags Portfolio
// @Produce json
// @Param itemID path string true "Portfolio item ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Portfolio item not found"
// @Router /student/portfolios/{itemID} [delete]
func (h portfolioHandler) deletePortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, loadErr := h.loadOwnItem(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		if err := h.portfolios.Delete(item.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "portfolio item", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"message": "portfolio item deleted successfully",
		})
	}
}

func (h portfolioHandler) loadOwnItem(r *http.Request) (*models.PortfolioItem, error) {
	actor, ok := ctxGetActor(r.Context())
	if !ok {
		return nil, errs.Unauthorized
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid itemID")
	}

	item, err := h.portfolios.FindByID(itemID)
	if err != nil {
		return nil, wrapDatabaseError("find", "portfolio item", err)
	}
	if item == nil {
		return nil, errs.NewNotFoundError("portfolio item")
	}
	if !canManagePortfolioItem(actor, item) {
		return nil, errs.NewForbiddenError("portfolio item belongs to another student")
	}
	return item, nil
}
