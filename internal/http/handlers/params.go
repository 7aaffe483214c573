package handlers

import (
	"strconv"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/domain"
	"task_deadlines/internal/http/middleware"
	"task_deadlines/internal/http/respond"

	"github.com/gin-gonic/gin"
)

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, apperr.Validation("invalid "+name))
		return 0, false
	}
	return id, true
}

// caller returns the identity set by the auth middleware. Routes without the
// middleware answer 401.
func caller(c *gin.Context) (domain.Identity, bool) {
	id, ok := middleware.Identity(c)
	if !ok {
		respond.Error(c, apperr.ErrAuthMissing)
	}
	return id, ok
}
