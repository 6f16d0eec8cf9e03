package repository

import (
	"context"
	"sync"
	"time"

	"todo_api/internal/domain"
)

// MemoryConversationStore is the in-process chat history store
type MemoryConversationStore struct {
	mu            sync.Mutex
	nextConvID    int64
	nextMsgID     int64
	conversations []*domain.Conversation
	messages      map[int64][]*domain.Message
	now           func() time.Time
}

func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		messages: make(map[int64][]*domain.Message),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryConversationStore) Create(ctx context.Context, userID string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextConvID++
	c := &domain.Conversation{ID: s.nextConvID, UserID: userID, CreatedAt: s.now()}
	s.conversations = append(s.conversations, c)
	cp := *c
	return &cp, nil
}

func (s *MemoryConversationStore) Get(ctx context.Context, userID string, id int64) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.conversations {
		if c.ID == id && c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (s *MemoryConversationStore) Latest(ctx context.Context, userID string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.conversations) - 1; i >= 0; i-- {
		if c := s.conversations[i]; c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (s *MemoryConversationStore) List(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]*domain.Conversation, 0)
	for i := len(s.conversations) - 1; i >= 0; i-- {
		if c := s.conversations[i]; c.UserID == userID {
			cp := *c
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (s *MemoryConversationStore) AppendMessage(ctx context.Context, conversationID int64, role domain.Role, content string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, c := range s.conversations {
		if c.ID == conversationID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrConversationNotFound
	}

	s.nextMsgID++
	m := &domain.Message{
		ID:             s.nextMsgID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      s.now(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], m)
	cp := *m
	return &cp, nil
}

func (s *MemoryConversationStore) Messages(ctx context.Context, conversationID int64, limit int) ([]*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.messages[conversationID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	res := make([]*domain.Message, 0, len(all))
	for _, m := range all {
		cp := *m
		res = append(res, &cp)
	}
	return res, nil
}
