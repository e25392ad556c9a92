package api

import (
	"encoding/json"
	"net/http"

	"github.com/SkillForge-Platform/SkillForge/backend/errs"
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type adminHandler struct {
	responder   Responder
	logger      zerolog.Logger
	submissions SubmissionStore
}

func newAdminHandler(submissions SubmissionStore) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		submissions: submissions,
	}
}

type reviewSubmissionRequest struct {
	Status   models.SubmissionStatus `json:"status"`
	Feedback *string                 `json:"feedback"`
}

// getSubmissionQueue lists submissions across all projects, optionally
// filtered by status and project.
// @Summary List submissions for review
// @Description Returns submissions across all projects, newest first
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by submission status"
// @Param project_id query string false "Filter by project" format(uuid)
// @Success 200 {object} map[string]any "Submissions with total count"
// @Failure 422 {object} ErrorResponse "Validation failure - Unknown status or malformed project_id"
// @Router /admin/projects/milestone-submissions [get]
func (h adminHandler) getSubmissionQueue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status models.SubmissionStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			status = models.SubmissionStatus(raw)
			if !status.Valid() {
				h.responder.WriteError(w, errs.NewValidationFieldError("status", "unknown submission status"))
				return
			}
		}

		var projectID *uuid.UUID
		if raw := r.URL.Query().Get("project_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewValidationFieldError("project_id", "must be a valid UUID"))
				return
			}
			projectID = &id
		}

		submissions, err := h.submissions.FindForAdmin(status, projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "submissions", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"submissions": submissions,
			"total":       len(submissions),
		})
	}
}

// reviewSubmission records an admin verdict on a submission. The update is
// guarded by the submission's version so two admins reviewing the same row
// cannot both win; the loser gets a conflict and should re-read.
// @Summary Review submission
// @Description Records an approved/rejected/reviewed verdict with optional feedback
// @Tags Admin
// @Accept json
// @Produce json
// @Param submissionID path string true "Submission ID" format(uuid)
// @Param review body reviewSubmissionRequest true "Review verdict"
// @Success 200 {object} models.MilestoneSubmission "Reviewed submission"
// @Failure 404 {object} ErrorResponse "Not Found - Submission not found"
// @Failure 409 {object} ErrorResponse "Conflict - Submission was modified by another review"
// @Failure 422 {object} ErrorResponse "Validation failure - Invalid verdict"
// @Router /admin/projects/milestone-submissions/{submissionID}/review [post]
func (h adminHandler) reviewSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ctxGetActor(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		submissionID, err := uuid.Parse(chi.URLParam(r, "submissionID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid submissionID"))
			return
		}

		var req reviewSubmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if !req.Status.ValidReviewStatus() {
			h.responder.WriteError(w, errs.NewValidationFieldError("status", "must be approved, rejected, or reviewed"))
			return
		}

		submission, err := h.submissions.FindByID(submissionID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "submission", err))
			return
		}
		if submission == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("submission"))
			return
		}

		won, err := h.submissions.Review(submission.ID, submission.Version, req.Status, req.Feedback, actor.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "submission", err))
			return
		}
		if !won {
			h.responder.WriteError(w, errs.NewConflictError("submission was modified by another review"))
			return
		}

		reviewed, err := h.submissions.FindByID(submission.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "submission", err))
			return
		}

		h.responder.WriteJSON(w, reviewed)
	}
}
