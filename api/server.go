package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/config"
	"github.com/SkillForge-Platform/SkillForge/backend/database"
	"github.com/SkillForge-Platform/SkillForge/backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database) (Server, error) {
	c := config.New()

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	stores := Stores{
		Projects:    db.ProjectRepo(),
		Assignments: db.AssignmentRepo(),
		Milestones:  db.MilestoneRepo(),
		Submissions: db.SubmissionRepo(),
		Portfolios:  db.PortfolioRepo(),
		Questions:   db.QuestionRepo(),
		Identity:    services.NewIdentityClient(config.GetString(c, "IDENTITY_SERVICE_URL", "")),
		Notifier:    services.NewWebhookNotifier(config.GetString(c, "NOTIFY_WEBHOOK_URL", "")),
	}

	router := newRouter(stores, withConfig(c), withStartupTime(startupTime))

	readTimeout := config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180)
	writeTimeout := config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180)
	idleTimeout := config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(stores Stores, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(MetricsMiddleware)

	acceptedOrigins := strings.Split(config.GetString(router.config, "ACCEPTED_ORIGINS", "*"), ",")
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers := initializeHandlers(stores)

	authMiddleware := newAuthMiddleware(config.GetString(router.config, "AUTH_JWT_SECRET", ""))

	// The rate limiter is optional: without REDIS_ADDR submissions are not
	// throttled, which is the right behavior for local development.
	var limiter *RedisLimiter
	if addr := config.GetString(router.config, "REDIS_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.GetString(router.config, "REDIS_PASSWORD", ""),
		})
		limiter = NewRedisLimiter(client)
	}
	submitLimit := config.GetInt(router.config, "SUBMIT_RATE_LIMIT", 30)
	submitWindow := config.GetSeconds(router.config, "SUBMIT_RATE_WINDOW_SECONDS", 60)

	setupRoutes(chiRouter, handlers, authMiddleware, limiter, submitLimit, submitWindow)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
