package service

import (
	"context"
	"errors"
	"testing"

	"todo_api/internal/domain"
	"todo_api/internal/repository"
)

func TestResolveCreatesThenReuses(t *testing.T) {
	svc := NewConversationService(repository.NewMemoryConversationStore())
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := svc.Resolve(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected reuse of %d, got %d", first.ID, second.ID)
	}

	other, err := svc.Resolve(ctx, "u2", nil)
	if err != nil {
		t.Fatalf("resolve u2: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("users must not share conversations")
	}
}

func TestResolvePicksMostRecent(t *testing.T) {
	store := repository.NewMemoryConversationStore()
	svc := NewConversationService(store)
	ctx := context.Background()

	if _, err := store.Create(ctx, "u1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	newest, _ := store.Create(ctx, "u1")

	got, err := svc.Resolve(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != newest.ID {
		t.Fatalf("resolved %d; want newest %d", got.ID, newest.ID)
	}
}

func TestResolveExplicitID(t *testing.T) {
	svc := NewConversationService(repository.NewMemoryConversationStore())
	ctx := context.Background()

	conv, _ := svc.Resolve(ctx, "alice", nil)

	got, err := svc.Resolve(ctx, "alice", &conv.ID)
	if err != nil || got.ID != conv.ID {
		t.Fatalf("explicit id: %+v %v", got, err)
	}

	if _, err := svc.Resolve(ctx, "bob", &conv.ID); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("foreign id: got %v", err)
	}
	missing := int64(999)
	if _, err := svc.Resolve(ctx, "alice", &missing); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("missing id: got %v", err)
	}
}

func TestHistoryRequiresOwnership(t *testing.T) {
	store := repository.NewMemoryConversationStore()
	svc := NewConversationService(store)
	ctx := context.Background()

	conv, _ := svc.Resolve(ctx, "alice", nil)
	if _, err := store.AppendMessage(ctx, conv.ID, domain.RoleUser, "hi"); err != nil {
		t.Fatalf("append: %v", err)
	}

	msgs, err := svc.History(ctx, "alice", conv.ID, 0)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("history: %+v %v", msgs, err)
	}
	if _, err := svc.History(ctx, "bob", conv.ID, 0); !domain.IsNotFound(err) {
		t.Fatalf("foreign history: got %v", err)
	}
}
