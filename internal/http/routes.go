package http

import (
	"strings"

	"todo_api/internal/http/handlers"
	"todo_api/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures NewRouter
type Options struct {
	Handler        *handlers.Handler
	Health         *handlers.HealthHandler
	AllowedOrigins []string
}

// NewRouter builds the engine with the standard middleware chain
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	// both slash variants are registered explicitly
	r.RedirectTrailingSlash = false
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(opts.AllowedOrigins),
	)
	RegisterRoutes(r, opts.Handler, opts.Health)
	return r
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler) {
	r.GET("/", h.Root)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/:user_id")

	// Tasks
	handle(api, "GET", "/tasks", h.ListTasks)
	handle(api, "POST", "/tasks", h.CreateTask)
	handle(api, "PATCH", "/tasks/:task_id/complete", h.ToggleTask)
	handle(api, "DELETE", "/tasks/:task_id", h.DeleteTask)

	// Chat
	handle(api, "POST", "/chat", h.Chat)
	handle(api, "POST", "/command", h.Command)
	handle(api, "GET", "/conversations", h.ListConversations)
	handle(api, "GET", "/conversations/:conversation_id/messages", h.ConversationMessages)
	api.GET("/ws", h.WS)
}

// handle registers path with and without a trailing slash
func handle(g *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	g.Handle(method, path, h)
	g.Handle(method, strings.TrimSuffix(path, "/")+"/", h)
}
