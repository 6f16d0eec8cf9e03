package repository

import (
	"context"
	"sync"
	"time"

	"todo_api/internal/domain"
)

// MemoryTaskStore keeps tasks in process memory. State is lost on restart.
type MemoryTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[string][]*domain.Task
	now    func() time.Time
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[string][]*domain.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryTaskStore) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ids are appended in increasing order so the slice is already sorted
	res := make([]*domain.Task, 0, len(s.tasks[userID]))
	for _, t := range s.tasks[userID] {
		res = append(res, copyTask(t))
	}
	return res, nil
}

func (s *MemoryTaskStore) Create(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.now()
	t.ID = s.nextID
	t.Completed = false
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tasks[t.UserID] = append(s.tasks[t.UserID], copyTask(t))
	return nil
}

func (s *MemoryTaskStore) ToggleCompleted(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks[userID] {
		if t.ID == id {
			t.Completed = !t.Completed
			t.UpdatedAt = s.now()
			return copyTask(t), nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (s *MemoryTaskStore) Delete(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.tasks[userID]
	for i, t := range list {
		if t.ID == id {
			s.tasks[userID] = append(list[:i:i], list[i+1:]...)
			return t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}
