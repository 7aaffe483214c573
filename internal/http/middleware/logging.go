package middleware

import (
	"time"

	"task_deadlines/internal/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one record per request after it completes.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := logger.WithContext(c.Request.Context()).With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if id, ok := Identity(c); ok {
			log = log.With("user_id", id.UserID)
		}
		if status >= 500 {
			log.Error("request")
			return
		}
		log.Info("request")
	}
}
