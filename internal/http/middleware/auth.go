package middleware

import (
	"strings"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/auth"
	"task_deadlines/internal/domain"
	"task_deadlines/internal/http/respond"
	"task_deadlines/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	identityCtxKey = "identity"
	tokenCtxKey    = "bearer_token"
)

// TokenVerifier turns a raw bearer token into a verified identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// JWT verifies the bearer token before any handler runs. On success the
// identity and the raw token are stored for downstream use; on failure the
// request is aborted and nothing after it executes.
func JWT(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond.Error(c, apperr.ErrAuthMissing)
			return
		}

		id, err := v.Verify(token)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("token verification failed",
				"path", c.FullPath(),
				"error", err,
			)
			respond.Error(c, err)
			return
		}

		c.Set(identityCtxKey, id)
		c.Set(tokenCtxKey, token)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// QueryToken copies ?token= into the Authorization header when the header is
// absent. Browsers cannot set headers on websocket upgrades.
func QueryToken(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if tok := c.Query(param); tok != "" {
				c.Request.Header.Set("Authorization", "Bearer "+tok)
			}
		}
		c.Next()
	}
}

// Identity returns the identity set by JWT.
func Identity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityCtxKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

// BearerToken returns the caller's original token, for delegation to other
// services.
func BearerToken(c *gin.Context) (string, bool) {
	v, ok := c.Get(tokenCtxKey)
	if !ok {
		return "", false
	}
	tok, ok := v.(string)
	return tok, ok && tok != ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
