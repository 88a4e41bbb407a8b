package handlers

import (
	"net/http"

	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"
	"todo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades the connection and subscribes it to the task feed. The token
// query parameter is optional: without it the connection is anonymous and
// the publish filter hides all private tasks from it. An empty allowedOrigin
// accepts any origin.
func (h *Handler) WS(hub *ws.Hub, allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var viewerID int64
		if token := c.Query("token"); token != "" {
			uid, err := service.ParseJWT(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			viewerID = uid
		}

		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(viewerID, conn, hub)
		go client.Run()
	}
}
