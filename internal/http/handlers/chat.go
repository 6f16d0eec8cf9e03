package handlers

import (
	"net/http"
	"strings"

	"todo_api/internal/agent"
	"todo_api/internal/domain"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversation_id"`
}

const historyLimit = 100

// Chat resolves the conversation, then hands the turn to the delegate. The
// delegate persists both messages.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty message"})
		return
	}

	ctx := c.Request.Context()
	uid := userID(c)
	conv, err := h.Conversations.Resolve(ctx, uid, req.ConversationID)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.Agent.Run(ctx, agent.Request{UserID: uid, Message: message, ConversationID: conv.ID})
	if err != nil {
		// delegate failures are always 500, whatever they wrap
		writeError(c, delegateError{err})
		return
	}
	if res.ToolCalls == nil {
		res.ToolCalls = []domain.ToolCall{}
	}
	c.JSON(http.StatusOK, res)
}

type delegateError struct{ err error }

func (e delegateError) Error() string { return e.err.Error() }

// Command runs one line through the interpreter without touching conversations
func (h *Handler) Command(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty message"})
		return
	}

	res, err := h.Commands.Execute(c.Request.Context(), userID(c), message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListConversations(c *gin.Context) {
	convs, err := h.Conversations.List(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

func (h *Handler) ConversationMessages(c *gin.Context) {
	id, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}

	msgs, err := h.Conversations.History(c.Request.Context(), userID(c), id, historyLimit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
