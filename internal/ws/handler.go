package ws

import (
	"net/http"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/http/middleware"
	"task_deadlines/internal/http/respond"
	"task_deadlines/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleEvents upgrades an authenticated request to the deadline event
// stream. It must run after middleware.JWT.
func HandleEvents(hub *Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		id, ok := middleware.Identity(c)
		if !ok {
			respond.Error(c, apperr.ErrAuthMissing)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("ws upgrade failed", "error", err)
			return
		}

		client := NewClient(id.UserID, conn, hub)
		go client.Run()
	}
}
