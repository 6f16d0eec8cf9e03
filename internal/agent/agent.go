// Package agent implements the chat delegate: it answers a user's message
// inside a conversation and owns persisting both the message and the reply.
package agent

import (
	"context"

	"todo_api/internal/domain"
)

// Request is one chat turn. ConversationID is always resolved by the caller.
type Request struct {
	UserID         string
	Message        string
	ConversationID int64
}

type Result struct {
	Reply          string            `json:"reply"`
	ConversationID int64             `json:"conversation_id"`
	ToolCalls      []domain.ToolCall `json:"tool_calls"`
}

// Delegate answers chat messages. Implementations append the user message
// and the reply to the conversation store; callers must not.
type Delegate interface {
	Run(ctx context.Context, req Request) (*Result, error)
}
