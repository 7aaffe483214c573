// Package respond writes the JSON error envelope shared by all services.
package respond

import (
	"net/http"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/logger"

	"github.com/gin-gonic/gin"
)

// Status maps an error kind to its HTTP status.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindAuthMissing:
		return http.StatusUnauthorized
	case apperr.KindAuthInvalid, apperr.KindOwnershipDenied:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with {"error": message}. Internal causes are
// logged and never sent to the client.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logger.WithContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(Status(kind), gin.H{"error": apperr.Message(err)})
}
