package service

import (
	"context"

	"todo_api/internal/domain"
)

// TaskStore is implemented by the postgres, redis and memory repositories.
// ToggleCompleted and Delete return domain.ErrTaskNotFound when the id does
// not exist for that user.
type TaskStore interface {
	List(ctx context.Context, userID string) ([]*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	ToggleCompleted(ctx context.Context, userID string, id int64) (*domain.Task, error)
	Delete(ctx context.Context, userID string, id int64) (*domain.Task, error)
}

// ConversationStore holds chat history
type ConversationStore interface {
	Create(ctx context.Context, userID string) (*domain.Conversation, error)
	Get(ctx context.Context, userID string, id int64) (*domain.Conversation, error)
	Latest(ctx context.Context, userID string) (*domain.Conversation, error)
	List(ctx context.Context, userID string) ([]*domain.Conversation, error)
	AppendMessage(ctx context.Context, conversationID int64, role domain.Role, content string) (*domain.Message, error)
	Messages(ctx context.Context, conversationID int64, limit int) ([]*domain.Message, error)
}
