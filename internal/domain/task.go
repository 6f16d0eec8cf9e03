package domain

import "time"

type Task struct {
	ID          int64     `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Checkbox returns the glyph used when rendering the task as a list line.
func (t *Task) Checkbox() string {
	if t.Completed {
		return "✅"
	}
	return "⬜"
}

// State is the human phrasing of the completion flag.
func (t *Task) State() string {
	if t.Completed {
		return "done"
	}
	return "not done"
}
