// Package ws runs the command interpreter over a websocket connection.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"todo_api/internal/domain"
	"todo_api/internal/logger"
	"todo_api/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
)

// Executor runs one command line for a user
type Executor interface {
	Execute(ctx context.Context, userID, line string) (*service.CommandResult, error)
}

// Session serves one connection. Frames are handled in order, one at a time.
type Session struct {
	UserID string
	Conn   *websocket.Conn

	exec Executor
	send chan []byte
	done chan struct{}
}

func NewSession(userID string, conn *websocket.Conn, exec Executor) *Session {
	return &Session{
		UserID: userID,
		Conn:   conn,
		exec:   exec,
		send:   make(chan []byte, 64),
		done:   make(chan struct{}),
	}
}

// Run sends the ready handshake and blocks until the client disconnects
func (s *Session) Run(ctx context.Context) {
	go s.writePump()

	log := logger.WithContext(ctx).With("user_id", s.UserID)
	log.Debug("ws session started")
	s.queue(Outbound{Type: MsgReady})
	s.readPump(ctx)
	log.Debug("ws session closed")
}

func (s *Session) readPump(ctx context.Context) {
	// only readPump queues frames, so it owns closing send
	defer close(s.send)

	s.Conn.SetReadLimit(maxMessageSize)
	s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	s.Conn.SetPongHandler(func(string) error {
		s.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithContext(ctx).Warn("ws read error", "user_id", s.UserID, "error", err)
			}
			return
		}
		if !s.queue(s.handle(ctx, msg)) {
			return
		}
	}
}

func (s *Session) handle(ctx context.Context, msg []byte) Outbound {
	var in Inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		return Outbound{Type: MsgError, Error: "invalid message", Status: http.StatusBadRequest}
	}
	line := strings.TrimSpace(in.Message)
	if line == "" {
		return Outbound{Type: MsgError, Error: "Empty message", Status: http.StatusBadRequest}
	}

	res, err := s.exec.Execute(ctx, s.UserID, line)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.WithContext(ctx).Error("ws command failed", "user_id", s.UserID, "error", err)
		}
		return Outbound{Type: MsgError, Error: err.Error(), Status: status}
	}
	return Outbound{Type: MsgReply, Reply: res.Reply, Intent: string(res.Intent)}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(s.done)
		s.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queue reports false once the writer has stopped
func (s *Session) queue(out Outbound) bool {
	b, err := json.Marshal(out)
	if err != nil {
		return false
	}
	select {
	case s.send <- b:
		return true
	case <-s.done:
		return false
	}
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
