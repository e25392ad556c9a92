package api

import (
	"net/http"
	"testing"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneCRUD(t *testing.T) {
	f := newWorkflowFixture(t)
	base := "/projects/" + f.project.ID.String() + "/milestones"

	t.Run("lists the seeded milestones", func(t *testing.T) {
		rec := doRequest(t, f.env.router, http.MethodGet, base, f.ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listing := decodeBody[map[string]any](t, rec)
		assert.EqualValues(t, 2, listing["total"])
	})

	t.Run("rejects empty title", func(t *testing.T) {
		rec := doRequest(t, f.env.router, http.MethodPost, base, f.ownerToken,
			map[string]any{"order_index": 3})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("rejects order index below one", func(t *testing.T) {
		rec := doRequest(t, f.env.router, http.MethodPost, base, f.ownerToken,
			map[string]any{"title": "Broken", "order_index": 0})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("updates a milestone", func(t *testing.T) {
		rec := doRequest(t, f.env.router, http.MethodPut, base+"/"+f.milestone.ID.String(), f.ownerToken,
			map[string]any{"title": "Design the data model"})
		require.Equal(t, http.StatusOK, rec.Code)
		updated := decodeBody[models.Milestone](t, rec)
		assert.Equal(t, "Design the data model", updated.Title)
	})

	t.Run("milestone of another project is 404", func(t *testing.T) {
		other := newWorkflowFixture(t)
		rec := doRequest(t, f.env.router, http.MethodPut, base+"/"+other.milestone.ID.String(), f.ownerToken,
			map[string]any{"title": "Cross-project edit"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete blocked while submissions exist", func(t *testing.T) {
		f.env.milestones.withSubmissions[f.milestone.ID] = true
		rec := doRequest(t, f.env.router, http.MethodDelete, base+"/"+f.milestone.ID.String(), f.ownerToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("delete succeeds without submissions", func(t *testing.T) {
		rec := doRequest(t, f.env.router, http.MethodDelete, base+"/"+f.nextMilestone.ID.String(), f.ownerToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSubmitMilestoneWork(t *testing.T) {
	acceptedFixture := func(t *testing.T) (*workflowFixture, models.Assignment) {
		f := newWorkflowFixture(t)
		assignment := f.invite(t)
		require.Equal(t, http.StatusOK,
			doRequest(t, f.env.router, http.MethodPost, f.assignmentPath(assignment.ID, "accept"), f.studentToken, nil).Code)
		return f, assignment
	}

	submitPath := func(f *workflowFixture, assignmentID, milestoneID uuid.UUID) string {
		return f.assignmentPath(assignmentID, "milestones/"+milestoneID.String()+"/submit")
	}

	t.Run("requires answer or attachment", func(t *testing.T) {
		f, assignment := acceptedFixture(t)
		rec := doRequest(t, f.env.router, http.MethodPost, submitPath(f, assignment.ID, f.milestone.ID), f.studentToken,
			map[string]any{})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, errorMessage(t, rec), "answer_text")
	})

	t.Run("rejects http attachment", func(t *testing.T) {
		f, assignment := acceptedFixture(t)
		rec := doRequest(t, f.env.router, http.MethodPost, submitPath(f, assignment.ID, f.milestone.ID), f.studentToken,
			map[string]any{"attachment_url": "http://example.com/work.zip"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("rejects private host attachment", func(t *testing.T) {
		f, assignment := acceptedFixture(t)
		rec := doRequest(t, f.env.router, http.MethodPost, submitPath(f, assignment.ID, f.milestone.ID), f.studentToken,
			map[string]any{"attachment_url": "https://192.168.1.10/work.zip"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("accepts https attachment", func(t *testing.T) {
		f, assignment := acceptedFixture(t)
		rec := doRequest(t, f.env.router, http.MethodPost, submitPath(f, assignment.ID, f.milestone.ID), f.studentToken,
			map[string]any{"attachment_url": "https://github.com/student/work"})
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("milestone from another project is rejected", func(t *testing.T) {
		f, assignment := acceptedFixture(t)
		other := newWorkflowFixture(t)

		// milestone exists in the same fake set but belongs elsewhere
		foreign := models.Milestone{ProjectID: other.project.ID, Title: "Foreign", OrderIndex: 1}
		require.NoError(t, f.env.milestones.Add(&foreign))

		rec := doRequest(t, f.env.router, http.MethodPost, submitPath(f, assignment.ID, foreign.ID), f.studentToken,
			map[string]any{"answer_text": "misdirected"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("resubmission overwrites and resets review", func(t *testing.T) {
		f, assignment := acceptedFixture(t)

		rec := doRequest(t, f.env.router, http.MethodPost, submitPath(f, assignment.ID, f.milestone.ID), f.studentToken,
			map[string]any{"answer_text": "first draft"})
		require.Equal(t, http.StatusCreated, rec.Code)
		first := decodeBody[models.MilestoneSubmission](t, rec)

		rec = doRequest(t, f.env.router, http.MethodPost,
			"/admin/projects/milestone-submissions/"+first.ID.String()+"/review", f.adminToken,
			map[string]any{"status": "rejected", "feedback": "needs detail"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, f.env.router, http.MethodPost, submitPath(f, assignment.ID, f.milestone.ID), f.studentToken,
			map[string]any{"answer_text": "second draft"})
		require.Equal(t, http.StatusCreated, rec.Code)
		second := decodeBody[models.MilestoneSubmission](t, rec)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, models.SubmissionPending, second.Status)
		assert.Nil(t, second.ReviewerFeedback)
		require.NotNil(t, second.AnswerText)
		assert.Equal(t, "second draft", *second.AnswerText)
	})
}

func TestStudentMilestoneView(t *testing.T) {
	f := newWorkflowFixture(t)
	assignment := f.invite(t)
	require.Equal(t, http.StatusOK,
		doRequest(t, f.env.router, http.MethodPost, f.assignmentPath(assignment.ID, "accept"), f.studentToken, nil).Code)

	rec := doRequest(t, f.env.router, http.MethodPost,
		f.assignmentPath(assignment.ID, "milestones/"+f.milestone.ID.String()+"/submit"), f.studentToken,
		map[string]any{"answer_text": "schema draft"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, f.env.router, http.MethodGet, f.assignmentPath(assignment.ID, "milestones"), f.studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	listing := decodeBody[struct {
		Milestones []MilestoneWithSubmission `json:"milestones"`
		Total      int                       `json:"total"`
	}](t, rec)
	require.Equal(t, 2, listing.Total)

	bySubmission := make(map[uuid.UUID]bool)
	for _, entry := range listing.Milestones {
		bySubmission[entry.Milestone.ID] = entry.Submission != nil
	}
	assert.True(t, bySubmission[f.milestone.ID])
	assert.False(t, bySubmission[f.nextMilestone.ID])
}
