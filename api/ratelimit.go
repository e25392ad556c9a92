package api

import (
	"context"
	"net/http"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/errs"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter limiter. A nil limiter allows
// everything, so the middleware stays wired even without redis configured.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		// fail open: a limiter outage must not take the API down
		log.Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	return allowed == 1
}

// rateLimitMiddleware throttles per-actor request bursts on the wrapped routes.
func rateLimitMiddleware(limiter *RedisLimiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "rateLimit").Logger())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ctxGetActor(r.Context())
			if ok && !limiter.Allow("ratelimit:submit:"+actor.ID.String(), limit, window) {
				responder.WriteError(w, errs.NewRateLimitedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
