package http

import (
	"time"

	"todo_webapp/internal/config"
	"todo_webapp/internal/http/handlers"
	"todo_webapp/internal/http/middleware"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/service"
	"todo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, version string, cfg *config.Config) {
	taskRepo := repository.NewTaskRepository(db)
	hub := ws.NewHub(taskRepo)

	taskService := service.NewTaskService(db, hub)
	h := handlers.NewHandler(db, taskService)
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRateLimit, apiRateWindow := 60, time.Minute
	authRateLimit, authRateWindow := 5, time.Minute
	allowedOrigin := ""
	if cfg != nil {
		apiRateLimit, apiRateWindow = cfg.APIRateLimit, cfg.APIRateWindow
		authRateLimit, authRateWindow = cfg.AuthRateLimit, cfg.AuthRateWindow
		allowedOrigin = cfg.AllowedOrigin
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, authRateLimit, authRateWindow)

	// Legacy /api routes (kept for backward compatibility)
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(api, h, authRateLimit, authRateWindow)

	// WebSocket task feed
	r.GET("/ws", h.WS(hub, allowedOrigin))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRateLimit int, authRateWindow time.Duration) {
	authRL := middleware.RedisRateLimit(authRateLimit, authRateWindow)

	// Auth
	api.POST("/auth/register", authRL, h.Register)
	api.POST("/auth/login", authRL, h.Login)

	// Current user
	api.GET("/me", middleware.JWT(), h.Me)

	// Tasks. Insert requires a caller identity; remove and check-toggle
	// deliberately do not (collaborative list), privacy is owner-only.
	api.GET("/tasks", middleware.OptionalJWT(), h.ListTasks)
	api.POST("/tasks", middleware.JWT(), h.CreateTask)
	api.DELETE("/tasks/:id", middleware.OptionalJWT(), h.RemoveTask)
	api.PATCH("/tasks/:id/check", middleware.OptionalJWT(), h.SetTaskChecked)
	api.PATCH("/tasks/:id/private", middleware.JWT(), h.SetTaskPrivate)
}
