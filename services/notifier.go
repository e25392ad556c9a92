package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WebhookNotifier posts workflow events to a configured webhook. Delivery is
// best effort: failures are logged, never surfaced to the request that
// triggered them.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: log.With().Str("serviceName", "webhookNotifier").Logger(),
	}
}

// AssignmentInvited notifies the invited student's channel about a new
// project invitation.
func (n *WebhookNotifier) AssignmentInvited(assignment models.Assignment) {
	if n == nil || n.webhookURL == "" {
		return
	}

	payload := map[string]any{
		"event":         "assignment.invited",
		"assignment_id": assignment.ID,
		"project_id":    assignment.ProjectID,
		"student_id":    assignment.StudentID,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error().Err(err).Msg("Error marshaling invitation notification")
		return
	}

	resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		n.logger.Error().Err(err).Msg("Error sending invitation notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Error().Msgf("Notification webhook returned non-2xx status: %d", resp.StatusCode)
	}
}
