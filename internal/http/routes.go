package http

import (
	"time"

	"task_deadlines/internal/auth"
	"task_deadlines/internal/http/handlers"
	"task_deadlines/internal/http/middleware"
	"task_deadlines/internal/secretcheck"
	"task_deadlines/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options is what every service needs regardless of its routes.
type Options struct {
	Service       string
	Version       string
	DB            handlers.Pinger
	Tokens        *auth.Manager
	Limiter       *middleware.RateLimiter
	APIRateLimit  int
	APIRateWindow time.Duration
	AllowedOrigin string
}

// NewEngine builds a gin engine with the shared middleware and the
// operational endpoints.
func NewEngine(o Options) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.CORS(o.AllowedOrigin),
	)

	health := handlers.NewHealthHandler(o.Service, o.DB, o.Version)
	r.GET("/", health.Root)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET(secretcheck.Path, secretcheck.Handler(o.Tokens.Fingerprint()))

	return r
}

func (o Options) apiGroup(r *gin.Engine) *gin.RouterGroup {
	g := r.Group("/")
	g.Use(o.Limiter.Limit(o.APIRateLimit, o.APIRateWindow, middleware.ByIP))
	return g
}

func RegisterUserRoutes(r *gin.Engine, o Options, users *handlers.UserHandler, authLimit int, authWindow time.Duration) {
	api := o.apiGroup(r)
	authRL := o.Limiter.Limit(authLimit, authWindow, middleware.ByIP)

	api.POST("/signup", authRL, users.Signup)
	api.POST("/login", authRL, users.Login)
}

func RegisterTaskRoutes(r *gin.Engine, o Options, tasks *handlers.TaskHandler) {
	api := o.apiGroup(r).Group("/tasks")
	api.Use(middleware.JWT(o.Tokens))
	{
		api.GET("", tasks.List)
		api.POST("", tasks.Create)
		api.GET("/:id", tasks.Get)
		api.PUT("/:id", tasks.Update)
		api.DELETE("/:id", tasks.Delete)
	}
}

func RegisterDeadlineRoutes(r *gin.Engine, o Options, deadlines *handlers.DeadlineHandler, hub *ws.Hub, writeLimit int, writeWindow time.Duration) {
	r.GET("/deadlines/events",
		middleware.QueryToken("token"),
		middleware.JWT(o.Tokens),
		ws.HandleEvents(hub, o.AllowedOrigin),
	)

	api := o.apiGroup(r).Group("/deadlines")
	api.Use(middleware.JWT(o.Tokens))
	writeRL := o.Limiter.Limit(writeLimit, writeWindow, middleware.ByUser)
	{
		api.GET("", deadlines.List)
		api.GET("/:taskId", deadlines.Get)
		api.POST("", writeRL, deadlines.Create)
		api.PUT("/:taskId", writeRL, deadlines.Update)
		api.DELETE("/:taskId", writeRL, deadlines.Delete)
	}
}
