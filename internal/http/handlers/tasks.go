package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTasks returns the snapshot visible to the caller (anonymous callers
// see only non-private tasks), newest first, plus the incomplete count.
func (h *Handler) ListTasks(c *gin.Context) {
	viewerID, _ := getUserID(c)

	tasks, incomplete, err := h.TaskService.List(c.Request.Context(), viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":            tasks,
		"incomplete_count": incomplete,
	})
}

// CreateTask is the tasks.insert method: authenticated callers only.
func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not-authorized"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	task, err := h.TaskService.Insert(c.Request.Context(), userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not-authorized"})
		case errors.Is(err, service.ErrInvalidText):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// RemoveTask is the tasks.remove method. No auth requirement and no
// ownership check; a missing task is a silent no-op.
func (h *Handler) RemoveTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.TaskService.Remove(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetTaskChecked is the tasks.setChecked method. Same permission model as
// RemoveTask.
func (h *Handler) SetTaskChecked(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req struct {
		Checked *bool `json:"checked"`
	}
	if err := c.BindJSON(&req); err != nil || req.Checked == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checked must be a boolean"})
		return
	}

	if err := h.TaskService.SetChecked(c.Request.Context(), id, *req.Checked); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetTaskPrivate toggles task privacy. Owner-only: privacy controls who may
// observe the task, so it cannot be a collaborative mutation.
func (h *Handler) SetTaskPrivate(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not-authorized"})
		return
	}

	id, ok := taskID(c)
	if !ok {
		return
	}

	var req struct {
		Private *bool `json:"private"`
	}
	if err := c.BindJSON(&req); err != nil || req.Private == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "private must be a boolean"})
		return
	}

	if err := h.TaskService.SetPrivate(c.Request.Context(), userID, id, *req.Private); err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not-authorized"})
		case errors.Is(err, service.ErrNotAuthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not-authorized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
