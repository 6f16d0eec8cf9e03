package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"todo_api/internal/domain"
)

// Intent is what a chat line asks for
type Intent string

const (
	IntentAdd      Intent = "add"
	IntentShow     Intent = "show"
	IntentComplete Intent = "complete"
	IntentDelete   Intent = "delete"
	IntentHelp     Intent = "help"
)

// HelpText is returned for any line that matches no command
const HelpText = "add: <title> - create a task\n" +
	"show - list your tasks\n" +
	"complete: <id> - toggle a task done/not done\n" +
	"delete: <id> - remove a task"

const noTasksReply = "No tasks found."

// Patterns run against the lowercased, trimmed line and must match all of it.
var (
	addPattern      = regexp.MustCompile(`^add:(.*)$`)
	showPattern     = regexp.MustCompile(`^(show|show tasks|list|list tasks|show my tasks)$`)
	completePattern = regexp.MustCompile(`^complete:\s*(\d+)$`)
	deletePattern   = regexp.MustCompile(`^delete:\s*(\d+)$`)
)

// Command is a classified chat line
type Command struct {
	Intent Intent
	Title  string
	TaskID int64
}

// CommandResult is the outcome of executing a Command
type CommandResult struct {
	Intent Intent         `json:"intent"`
	Reply  string         `json:"reply"`
	Task   *domain.Task   `json:"task,omitempty"`
	Tasks  []*domain.Task `json:"-"`
}

// Parse classifies a single line. It never fails: unknown input is IntentHelp.
func Parse(line string) Command {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	switch {
	case addPattern.MatchString(lower):
		// title keeps the user's capitalization
		_, title, _ := strings.Cut(trimmed, ":")
		return Command{Intent: IntentAdd, Title: strings.TrimSpace(title)}
	case showPattern.MatchString(lower):
		return Command{Intent: IntentShow}
	}

	if m := completePattern.FindStringSubmatch(lower); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return Command{Intent: IntentComplete, TaskID: id}
		}
	}
	if m := deletePattern.FindStringSubmatch(lower); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return Command{Intent: IntentDelete, TaskID: id}
		}
	}
	return Command{Intent: IntentHelp}
}

// CommandInterpreter dispatches parsed commands to the task service.
// It keeps no state between calls.
type CommandInterpreter struct {
	tasks *TaskService
}

func NewCommandInterpreter(tasks *TaskService) *CommandInterpreter {
	return &CommandInterpreter{tasks: tasks}
}

// Execute parses line and runs it for userID. Validation and not-found errors
// from the task service are returned unchanged.
func (ci *CommandInterpreter) Execute(ctx context.Context, userID, line string) (*CommandResult, error) {
	return ci.Run(ctx, userID, Parse(line))
}

func (ci *CommandInterpreter) Run(ctx context.Context, userID string, cmd Command) (*CommandResult, error) {
	CommandIntents.WithLabelValues(string(cmd.Intent)).Inc()

	switch cmd.Intent {
	case IntentAdd:
		t, err := ci.tasks.Create(ctx, userID, cmd.Title, nil)
		if err != nil {
			return nil, err
		}
		return &CommandResult{Intent: cmd.Intent, Reply: "Added task: " + t.Title, Task: t}, nil

	case IntentShow:
		tasks, err := ci.tasks.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &CommandResult{Intent: cmd.Intent, Reply: FormatTaskList(tasks), Tasks: tasks}, nil

	case IntentComplete:
		t, err := ci.tasks.Toggle(ctx, userID, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		reply := fmt.Sprintf("Toggled complete: %s (now %s)", t.Title, t.State())
		return &CommandResult{Intent: cmd.Intent, Reply: reply, Task: t}, nil

	case IntentDelete:
		t, err := ci.tasks.Delete(ctx, userID, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		return &CommandResult{Intent: cmd.Intent, Reply: "Deleted task: " + t.Title, Task: t}, nil
	}

	return &CommandResult{Intent: IntentHelp, Reply: HelpText}, nil
}

// FormatTaskList renders one "{id}. {box} {title}" line per task
func FormatTaskList(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return noTasksReply
	}
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("%d. %s %s", t.ID, t.Checkbox(), t.Title))
	}
	return strings.Join(lines, "\n")
}
