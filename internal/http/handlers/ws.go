package handlers

import (
	"context"
	"net/http"

	"todo_api/internal/http/middleware"
	"todo_api/internal/logger"
	"todo_api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades to a websocket that accepts one command per frame
func (h *Handler) WS(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return middleware.OriginAllowed(h.AllowedOrigins, r.Header.Get("Origin"))
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("ws upgrade failed", "error", err)
		return
	}

	// the hijacked connection, not the request, bounds the session
	ctx := context.WithoutCancel(c.Request.Context())
	ws.NewSession(userID(c), conn, h.Commands).Run(ctx)
}
