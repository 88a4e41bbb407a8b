package handlers

import (
	"net/http"

	"todo_webapp/internal/repository"

	"github.com/gin-gonic/gin"
)

// Me returns the current authenticated user: the currentUser projection the
// client view-model subscribes to.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	repo := repository.NewUserRepository(h.DB)
	user, err := repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"created_at": user.CreatedAt,
	})
}
