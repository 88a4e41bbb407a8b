package handlers

import (
	"todo_webapp/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	TaskService *service.TaskService
}

func NewHandler(db *pgxpool.Pool, taskService *service.TaskService) *Handler {
	return &Handler{
		DB:          db,
		TaskService: taskService,
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(any) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
