package repository

import (
	"context"
	"errors"
	"testing"

	"todo_api/internal/domain"
)

// taskStore is the behaviour every task store variant shares.
type taskStore interface {
	List(ctx context.Context, userID string) ([]*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	ToggleCompleted(ctx context.Context, userID string, id int64) (*domain.Task, error)
	Delete(ctx context.Context, userID string, id int64) (*domain.Task, error)
}

// runTaskStoreContract exercises a store with owners unique to this run.
func runTaskStoreContract(t *testing.T, store taskStore, owner, other string) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.List(ctx, owner)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", empty)
	}

	desc := "2 litres"
	first := &domain.Task{UserID: owner, Title: "buy milk", Description: &desc}
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := &domain.Task{UserID: owner, Title: "walk dog"}
	if err := store.Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("ids must increase: %d, %d", first.ID, second.ID)
	}
	if first.Completed || first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Fatalf("create must set defaults: %+v", first)
	}

	tasks, err := store.List(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != first.ID || tasks[1].ID != second.ID {
		t.Fatalf("unexpected list %+v", tasks)
	}
	if tasks[0].Description == nil || *tasks[0].Description != desc {
		t.Fatalf("description lost: %+v", tasks[0])
	}
	if tasks[1].Description != nil {
		t.Fatalf("absent description must stay nil: %+v", tasks[1])
	}

	toggled, err := store.ToggleCompleted(ctx, owner, first.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed || toggled.Title != "buy milk" {
		t.Fatalf("toggle result %+v", toggled)
	}
	if toggled.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("updated_at went backwards")
	}
	back, err := store.ToggleCompleted(ctx, owner, first.ID)
	if err != nil {
		t.Fatalf("toggle again: %v", err)
	}
	if back.Completed {
		t.Fatalf("double toggle must restore completed=false")
	}

	// other owner sees nothing and cannot touch owner's tasks
	others, err := store.List(ctx, other)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("cross-owner leak: %+v", others)
	}
	if _, err := store.ToggleCompleted(ctx, other, first.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("cross-owner toggle: got %v", err)
	}
	if _, err := store.Delete(ctx, other, first.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("cross-owner delete: got %v", err)
	}

	deleted, err := store.Delete(ctx, owner, first.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != first.ID || deleted.Title != "buy milk" {
		t.Fatalf("deleted %+v", deleted)
	}
	if _, err := store.Delete(ctx, owner, first.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
	if _, err := store.ToggleCompleted(ctx, owner, first.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("toggle deleted: got %v", err)
	}

	tasks, err = store.List(ctx, owner)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != second.ID {
		t.Fatalf("unexpected list after delete %+v", tasks)
	}

	// ids are never reused
	third := &domain.Task{UserID: owner, Title: "third"}
	if err := store.Create(ctx, third); err != nil {
		t.Fatalf("create third: %v", err)
	}
	if third.ID <= second.ID {
		t.Fatalf("id reused: %d after %d", third.ID, second.ID)
	}
}

func TestMemoryTaskStoreContract(t *testing.T) {
	runTaskStoreContract(t, NewMemoryTaskStore(), "alice", "bob")
}

func TestMemoryTaskStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTaskStore()

	task := &domain.Task{UserID: "u", Title: "original"}
	if err := store.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	task.Title = "mutated by caller"

	tasks, _ := store.List(ctx, "u")
	tasks[0].Completed = true

	again, _ := store.List(ctx, "u")
	if again[0].Title != "original" || again[0].Completed {
		t.Fatalf("store state leaked to caller: %+v", again[0])
	}
}
