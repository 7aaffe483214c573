package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task_deadlines/internal/auth"
	"task_deadlines/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func newTestRouter(t *testing.T, m *auth.Manager, reached *int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/protected", JWT(m), func(c *gin.Context) {
		*reached++
		id, ok := Identity(c)
		require.True(t, ok)
		tok, ok := BearerToken(c)
		require.True(t, ok)
		ctxID, ok := auth.IdentityFrom(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID, "ctxUserId": ctxID.UserID, "token": tok})
	})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestJWT(t *testing.T) {
	m, err := auth.NewManager(testSecret, time.Hour)
	require.NoError(t, err)
	valid, err := m.Issue(domain.Identity{UserID: 42, Username: "alice"})
	require.NoError(t, err)

	other, err := auth.NewManager("some-other-secret-value", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue(domain.Identity{UserID: 42, Username: "alice"})
	require.NoError(t, err)

	cases := []struct {
		name      string
		header    string
		wantCode  int
		wantError string
	}{
		{"no header", "", http.StatusUnauthorized, "no token provided"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "no token provided"},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized, "no token provided"},
		{"garbage token", "Bearer abc.def.ghi", http.StatusForbidden, "invalid or expired token"},
		{"foreign secret", "Bearer " + forged, http.StatusForbidden, "invalid or expired token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached := 0
			r := newTestRouter(t, m, &reached)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantError, decodeError(t, w))
			assert.Zero(t, reached, "handler must not run")
		})
	}

	t.Run("valid token", func(t *testing.T) {
		reached := 0
		r := newTestRouter(t, m, &reached)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer "+valid)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, reached)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

		var body struct {
			UserID    int64  `json:"userId"`
			CtxUserID int64  `json:"ctxUserId"`
			Token     string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(42), body.UserID)
		assert.Equal(t, int64(42), body.CtxUserID)
		assert.Equal(t, valid, body.Token)
	})
}

func TestQueryToken(t *testing.T) {
	m, err := auth.NewManager(testSecret, time.Hour)
	require.NoError(t, err)
	valid, err := m.Issue(domain.Identity{UserID: 5, Username: "bob"})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/events", QueryToken("token"), JWT(m), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?token="+valid, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}
