package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), userID(c), req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) ToggleTask(c *gin.Context) {
	id, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	task, err := h.Tasks.Toggle(c.Request.Context(), userID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	if _, err := h.Tasks.Delete(c.Request.Context(), userID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
