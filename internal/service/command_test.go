package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"todo_api/internal/domain"
	"todo_api/internal/repository"
)

func TestParse(t *testing.T) {
	cases := []struct {
		line   string
		intent Intent
		title  string
		id     int64
	}{
		{"add: buy milk", IntentAdd, "buy milk", 0},
		{"ADD: Buy Milk", IntentAdd, "Buy Milk", 0},
		{"  Add:Call Mom  ", IntentAdd, "Call Mom", 0},
		{"add: a: b", IntentAdd, "a: b", 0},
		{"add:", IntentAdd, "", 0},
		{"show", IntentShow, "", 0},
		{"SHOW TASKS", IntentShow, "", 0},
		{"list", IntentShow, "", 0},
		{"list tasks", IntentShow, "", 0},
		{" show my tasks ", IntentShow, "", 0},
		{"show me", IntentHelp, "", 0},
		{"complete: 1", IntentComplete, "", 1},
		{"Complete:12", IntentComplete, "", 12},
		{"complete: x", IntentHelp, "", 0},
		{"delete: 3", IntentDelete, "", 3},
		{"DELETE:  40", IntentDelete, "", 40},
		{"delete 3", IntentHelp, "", 0},
		{"nonsense", IntentHelp, "", 0},
		{"", IntentHelp, "", 0},
	}

	for _, tc := range cases {
		got := Parse(tc.line)
		if got.Intent != tc.intent || got.Title != tc.title || got.TaskID != tc.id {
			t.Fatalf("Parse(%q) = %+v; want intent=%s title=%q id=%d", tc.line, got, tc.intent, tc.title, tc.id)
		}
	}
}

func newInterpreter() (*CommandInterpreter, *TaskService) {
	tasks := NewTaskService(repository.NewMemoryTaskStore())
	return NewCommandInterpreter(tasks), tasks
}

func TestInterpreterAdd(t *testing.T) {
	ci, tasks := newInterpreter()
	ctx := context.Background()

	res, err := ci.Execute(ctx, "u1", "add: buy milk")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Reply != "Added task: buy milk" {
		t.Fatalf("reply = %q", res.Reply)
	}

	list, _ := tasks.List(ctx, "u1")
	if len(list) != 1 || list[0].Title != "buy milk" {
		t.Fatalf("tasks = %+v", list)
	}
}

func TestInterpreterAddEmpty(t *testing.T) {
	ci, _ := newInterpreter()
	_, err := ci.Execute(context.Background(), "u1", "add:   ")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInterpreterShow(t *testing.T) {
	ci, tasks := newInterpreter()
	ctx := context.Background()

	res, err := ci.Execute(ctx, "u1", "show")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Reply != "No tasks found." {
		t.Fatalf("reply = %q", res.Reply)
	}

	if _, err := tasks.Create(ctx, "u1", "x", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	res, _ = ci.Execute(ctx, "u1", "show")
	if res.Reply != "1. ⬜ x" {
		t.Fatalf("reply = %q", res.Reply)
	}

	second, _ := tasks.Create(ctx, "u1", "y", nil)
	if _, err := tasks.Toggle(ctx, "u1", second.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	res, _ = ci.Execute(ctx, "u1", "list tasks")
	if res.Reply != "1. ⬜ x\n2. ✅ y" {
		t.Fatalf("reply = %q", res.Reply)
	}
}

func TestInterpreterCompleteAlternates(t *testing.T) {
	ci, tasks := newInterpreter()
	ctx := context.Background()
	if _, err := tasks.Create(ctx, "u1", "x", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := ci.Execute(ctx, "u1", "complete: 1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Reply != "Toggled complete: x (now done)" {
		t.Fatalf("reply = %q", res.Reply)
	}

	res, err = ci.Execute(ctx, "u1", "complete: 1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Reply != "Toggled complete: x (now not done)" {
		t.Fatalf("reply = %q", res.Reply)
	}

	list, _ := tasks.List(ctx, "u1")
	if list[0].Completed {
		t.Fatalf("expected completed=false after two toggles")
	}
}

func TestInterpreterNotFound(t *testing.T) {
	ci, tasks := newInterpreter()
	ctx := context.Background()
	if _, err := tasks.Create(ctx, "alice", "x", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, line := range []string{"complete: 1", "delete: 1", "complete: 99"} {
		if _, err := ci.Execute(ctx, "bob", line); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Fatalf("%q: expected not found, got %v", line, err)
		}
	}
}

func TestInterpreterDelete(t *testing.T) {
	ci, tasks := newInterpreter()
	ctx := context.Background()
	if _, err := tasks.Create(ctx, "u1", "Call Mom", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := ci.Execute(ctx, "u1", "delete: 1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Reply != "Deleted task: Call Mom" {
		t.Fatalf("reply = %q", res.Reply)
	}
	if _, err := ci.Execute(ctx, "u1", "delete: 1"); !domain.IsNotFound(err) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestInterpreterHelp(t *testing.T) {
	ci, tasks := newInterpreter()
	ctx := context.Background()

	res, err := ci.Execute(ctx, "u1", "nonsense")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Reply != HelpText || res.Intent != IntentHelp {
		t.Fatalf("reply = %q", res.Reply)
	}
	if n := len(strings.Split(res.Reply, "\n")); n != 4 {
		t.Fatalf("help must have four lines, got %d", n)
	}

	// same text regardless of owner or state
	if _, err := tasks.Create(ctx, "u2", "x", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	res2, _ := ci.Execute(ctx, "u2", "nonsense")
	if res2.Reply != res.Reply {
		t.Fatalf("help text changed with state")
	}
}
