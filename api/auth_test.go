package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims actorClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv()

	t.Run("accepts a valid token", func(t *testing.T) {
		token := makeToken(t, uuid.New(), models.RoleBusiness)
		rec := doRequest(t, env.router, http.MethodGet, "/projects", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		rec := doRequest(t, env.router, http.MethodGet, "/projects", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token := signToken(t, actorClaims{
			Role: string(models.RoleBusiness),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}, testSecret)
		rec := doRequest(t, env.router, http.MethodGet, "/projects", token, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, errorMessage(t, rec), "expired")
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token := signToken(t, actorClaims{
			Role: string(models.RoleBusiness),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, "some-other-secret")
		rec := doRequest(t, env.router, http.MethodGet, "/projects", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an unknown role claim", func(t *testing.T) {
		token := signToken(t, actorClaims{
			Role: "superuser",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)
		rec := doRequest(t, env.router, http.MethodGet, "/projects", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a non-uuid subject", func(t *testing.T) {
		token := signToken(t, actorClaims{
			Role: string(models.RoleBusiness),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "not-a-uuid",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)
		rec := doRequest(t, env.router, http.MethodGet, "/projects", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	env := newTestEnv()

	t.Run("business cannot reach student routes", func(t *testing.T) {
		token := makeToken(t, uuid.New(), models.RoleBusiness)
		rec := doRequest(t, env.router, http.MethodGet, "/projects/assignments", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("student cannot reach admin routes", func(t *testing.T) {
		token := makeToken(t, uuid.New(), models.RoleStudent)
		rec := doRequest(t, env.router, http.MethodGet, "/admin/questions", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("metrics needs no token", func(t *testing.T) {
		rec := doRequest(t, env.router, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
