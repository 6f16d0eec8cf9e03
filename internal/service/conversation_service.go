package service

import (
	"context"
	"errors"

	"todo_api/internal/domain"
	"todo_api/internal/logger"
)

// ConversationService resolves which conversation a chat message belongs to
type ConversationService struct {
	store ConversationStore
}

func NewConversationService(store ConversationStore) *ConversationService {
	return &ConversationService{store: store}
}

// Resolve returns the requested conversation when id is set, otherwise the
// user's most recent one, creating it if the user has none.
func (s *ConversationService) Resolve(ctx context.Context, userID string, id *int64) (*domain.Conversation, error) {
	if id != nil {
		return s.store.Get(ctx, userID, *id)
	}

	latest, err := s.store.Latest(ctx, userID)
	if err == nil {
		return latest, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	conv, err := s.store.Create(ctx, userID)
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("conversation created", "user_id", userID, "conversation_id", conv.ID)
	return conv, nil
}

func (s *ConversationService) List(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	return s.store.List(ctx, userID)
}

// History returns the messages of a conversation owned by userID
func (s *ConversationService) History(ctx context.Context, userID string, id int64, limit int) ([]*domain.Message, error) {
	if _, err := s.store.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.store.Messages(ctx, id, limit)
}
