package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTaskCheckbox(t *testing.T) {
	task := &Task{Title: "x"}
	if got := task.Checkbox(); got != "⬜" {
		t.Fatalf("open task checkbox = %q", got)
	}
	if got := task.State(); got != "not done" {
		t.Fatalf("open task state = %q", got)
	}
	task.Completed = true
	if got := task.Checkbox(); got != "✅" {
		t.Fatalf("done task checkbox = %q", got)
	}
	if got := task.State(); got != "done" {
		t.Fatalf("done task state = %q", got)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	wrapped := fmt.Errorf("toggle: %w", ErrTaskNotFound)
	if !IsNotFound(wrapped) {
		t.Fatalf("expected wrapped task error to be not found")
	}
	if ErrTaskNotFound.Error() != "task not found" {
		t.Fatalf("unexpected message %q", ErrTaskNotFound.Error())
	}
	if IsValidation(wrapped) {
		t.Fatalf("not found must not be a validation error")
	}

	ve := fmt.Errorf("create: %w", NewValidationError("title", "must not be empty"))
	if !IsValidation(ve) {
		t.Fatalf("expected validation error")
	}
	if errors.Is(ve, ErrNotFound) {
		t.Fatalf("validation error must not be not found")
	}
	if got := NewValidationError("title", "must not be empty").Error(); got != "title: must not be empty" {
		t.Fatalf("unexpected message %q", got)
	}
}
