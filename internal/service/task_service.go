package service

import (
	"context"
	"strings"

	"todo_api/internal/domain"
	"todo_api/internal/logger"
)

// TaskService validates input and records metrics around a TaskStore
type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks, err := s.store.List(ctx, userID)
	TaskOperations.WithLabelValues("list", outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create trims the title and rejects it when empty. A blank description is
// stored as absent.
func (s *TaskService) Create(ctx context.Context, userID, title string, description *string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		err := domain.NewValidationError("title", "must not be empty")
		TaskOperations.WithLabelValues("create", outcome(err)).Inc()
		return nil, err
	}
	if description != nil && strings.TrimSpace(*description) == "" {
		description = nil
	}

	t := &domain.Task{UserID: userID, Title: title, Description: description}
	err := s.store.Create(ctx, t)
	TaskOperations.WithLabelValues("create", outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("task created", "user_id", userID, "task_id", t.ID)
	return t, nil
}

func (s *TaskService) Toggle(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	t, err := s.store.ToggleCompleted(ctx, userID, id)
	TaskOperations.WithLabelValues("toggle", outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("task toggled", "user_id", userID, "task_id", id, "completed", t.Completed)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	t, err := s.store.Delete(ctx, userID, id)
	TaskOperations.WithLabelValues("delete", outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("task deleted", "user_id", userID, "task_id", id)
	return t, nil
}
