package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentInvited(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	assignment := models.Assignment{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		StudentID: uuid.New(),
		Status:    models.AssignmentInvited,
	}

	NewWebhookNotifier(server.URL).AssignmentInvited(assignment)

	require.NotNil(t, received)
	assert.Equal(t, "assignment.invited", received["event"])
	assert.Equal(t, assignment.ID.String(), received["assignment_id"])
	assert.Equal(t, assignment.StudentID.String(), received["student_id"])
}

func TestAssignmentInvitedWithoutWebhook(t *testing.T) {
	// no URL configured means a silent no-op
	NewWebhookNotifier("").AssignmentInvited(models.Assignment{ID: uuid.New()})

	var nilNotifier *WebhookNotifier
	nilNotifier.AssignmentInvited(models.Assignment{ID: uuid.New()})
}
