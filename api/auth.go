package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SkillForge-Platform/SkillForge/backend/errs"
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type authMiddleware struct {
	secret    []byte
	responder Responder
}

func newAuthMiddleware(secret string) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		secret:    []byte(secret),
		responder: NewResponder(logger),
	}
}

// actorClaims are the claims the identity service puts in its access tokens:
// the subject is the user id, role is the platform role.
type actorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// authenticate verifies the bearer token and stores the actor in the request
// context. The token is issued by the external identity service; this
// service only checks signature, expiry and claim shape.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			m.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		var claims actorClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				m.responder.WriteError(w, errs.NewExpiredTokenError())
				return
			}
			m.responder.WriteError(w, errs.NewInvalidTokenError())
			return
		}
		if !token.Valid {
			m.responder.WriteError(w, errs.NewInvalidTokenError())
			return
		}

		actorID, err := uuid.Parse(claims.Subject)
		if err != nil {
			m.responder.WriteError(w, errs.NewInvalidTokenError())
			return
		}
		role := models.Role(claims.Role)
		if !role.Valid() {
			m.responder.WriteError(w, errs.NewInvalidTokenError())
			return
		}

		updatedCtx := ctxWithActor(r.Context(), models.Actor{ID: actorID, Role: role})
		next.ServeHTTP(w, r.WithContext(updatedCtx))
	})
}

// requireRole guards a route group with a role check on the actor placed in
// the context by authenticate.
func (m authMiddleware) requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ctxGetActor(r.Context())
			if !ok {
				m.responder.WriteError(w, errs.Unauthorized)
				return
			}
			if actor.Role != role {
				m.responder.WriteError(w, errs.NewInsufficientRoleError(string(role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
