package repository

import (
	"context"
	"errors"
	"fmt"

	"todo_api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

// TaskRepository is the durable PostgreSQL task store.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns the owner's tasks in ascending id order
func (r *TaskRepository) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	t.Completed = false
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, completed)
		 VALUES ($1, $2, $3, false)
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Title, t.Description,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ToggleCompleted flips the flag in a single statement keyed by (user_id, id)
func (r *TaskRepository) ToggleCompleted(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	var t domain.Task
	err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET completed = NOT completed, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, userID,
	), &t)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrTaskNotFound)
	}
	return &t, nil
}

// Delete removes the task and returns the deleted row
func (r *TaskRepository) Delete(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	var t domain.Task
	err := scanTask(r.db.QueryRow(ctx,
		`DELETE FROM tasks
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, userID,
	), &t)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrTaskNotFound)
	}
	return &t, nil
}

func scanTask(row pgx.Row, t *domain.Task) error {
	return row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
}

func mapNoRows(err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}
