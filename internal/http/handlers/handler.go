package handlers

import (
	"net/http"
	"strconv"

	"todo_api/internal/agent"
	"todo_api/internal/domain"
	"todo_api/internal/logger"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
)

// Deps are the services the handlers dispatch to
type Deps struct {
	Tasks          *service.TaskService
	Commands       *service.CommandInterpreter
	Conversations  *service.ConversationService
	Agent          agent.Delegate
	AllowedOrigins []string
}

type Handler struct {
	Tasks          *service.TaskService
	Commands       *service.CommandInterpreter
	Conversations  *service.ConversationService
	Agent          agent.Delegate
	AllowedOrigins []string
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		Tasks:          d.Tasks,
		Commands:       d.Commands,
		Conversations:  d.Conversations,
		Agent:          d.Agent,
		AllowedOrigins: d.AllowedOrigins,
	}
}

// Root mirrors the service banner
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Todo API is running"})
}

// userID is the opaque owner segment of every /api route
func userID(c *gin.Context) string {
	return c.Param("user_id")
}

// pathID parses a numeric path parameter, writing 400 on failure
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to status codes. Everything else is a 500
// carrying the error text.
func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error("request failed",
			"route", c.FullPath(), "user_id", userID(c), "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
