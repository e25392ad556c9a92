package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// IdentityClient resolves user ids against the external identity service.
// The workflow core never stores users itself; it only needs to know that a
// referenced id exists and carries the expected role.
type IdentityClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewIdentityClient(baseURL string) *IdentityClient {
	return &IdentityClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log.With().Str("serviceName", "identityClient").Logger(),
	}
}

type identityUser struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
}

// UserHasRole reports whether the identity service knows the user and lists
// them under the given role. A 404 from the service means "no such user".
func (c *IdentityClient) UserHasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	url := fmt.Sprintf("%s/internal/users/%s", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("userID", userID.String()).Msg("identity lookup failed")
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var user identityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return false, fmt.Errorf("decoding identity response: %w", err)
	}

	return user.Role == string(role), nil
}
