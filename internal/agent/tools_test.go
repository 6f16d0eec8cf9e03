package agent

import (
	"context"
	"strings"
	"testing"

	"todo_api/internal/domain"
	"todo_api/internal/repository"
	"todo_api/internal/service"
)

func newToolbox(t *testing.T) (*Toolbox, *service.TaskService) {
	t.Helper()
	tasks := service.NewTaskService(repository.NewMemoryTaskStore())
	tb, err := NewToolbox(tasks)
	if err != nil {
		t.Fatalf("new toolbox: %v", err)
	}
	return tb, tasks
}

func TestToolboxDefinitionsOrder(t *testing.T) {
	tb, _ := newToolbox(t)
	defs := tb.Definitions()
	want := []string{ToolAddTask, ToolListTasks, ToolCompleteTask, ToolDeleteTask}
	if len(defs) != len(want) {
		t.Fatalf("got %d definitions", len(defs))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Fatalf("defs[%d] = %s; want %s", i, defs[i].Name, name)
		}
	}
}

func TestToolboxExecute(t *testing.T) {
	tb, tasks := newToolbox(t)
	ctx := context.Background()

	call := tb.Execute(ctx, "u1", ToolAddTask, `{"title":"buy milk","description":"2l"}`)
	if call.Error != "" {
		t.Fatalf("add_task failed: %s", call.Error)
	}
	task, ok := call.Result.(*domain.Task)
	if !ok || task.Title != "buy milk" || task.Description == nil {
		t.Fatalf("unexpected result %#v", call.Result)
	}

	call = tb.Execute(ctx, "u1", ToolCompleteTask, `{"task_id": 1}`)
	if call.Error != "" {
		t.Fatalf("complete_task failed: %s", call.Error)
	}
	if !call.Result.(*domain.Task).Completed {
		t.Fatalf("task not completed")
	}

	call = tb.Execute(ctx, "u1", ToolListTasks, "")
	if call.Error != "" {
		t.Fatalf("list_tasks failed: %s", call.Error)
	}
	if list := call.Result.([]*domain.Task); len(list) != 1 {
		t.Fatalf("list = %+v", list)
	}
	if string(call.Arguments) != "{}" {
		t.Fatalf("empty arguments should normalise to {}, got %s", call.Arguments)
	}

	call = tb.Execute(ctx, "u1", ToolDeleteTask, `{"task_id": 1}`)
	if call.Error != "" {
		t.Fatalf("delete_task failed: %s", call.Error)
	}
	list, _ := tasks.List(ctx, "u1")
	if len(list) != 0 {
		t.Fatalf("task not deleted")
	}
}

func TestToolboxRejectsInvalidArguments(t *testing.T) {
	tb, _ := newToolbox(t)
	ctx := context.Background()

	cases := []struct {
		name, tool, args string
	}{
		{"missing title", ToolAddTask, `{}`},
		{"empty title", ToolAddTask, `{"title":""}`},
		{"extra field", ToolAddTask, `{"title":"x","priority":1}`},
		{"string id", ToolCompleteTask, `{"task_id":"1"}`},
		{"fractional id", ToolDeleteTask, `{"task_id":1.5}`},
		{"zero id", ToolDeleteTask, `{"task_id":0}`},
		{"not json", ToolListTasks, `{`},
	}
	for _, tc := range cases {
		call := tb.Execute(ctx, "u1", tc.tool, tc.args)
		if !strings.HasPrefix(call.Error, "invalid arguments") {
			t.Fatalf("%s: expected invalid arguments, got %q", tc.name, call.Error)
		}
		if call.Result != nil {
			t.Fatalf("%s: result must be empty", tc.name)
		}
	}
}

func TestToolboxDomainErrorsRecorded(t *testing.T) {
	tb, _ := newToolbox(t)

	call := tb.Execute(context.Background(), "u1", ToolCompleteTask, `{"task_id": 42}`)
	if call.Error != domain.ErrTaskNotFound.Error() {
		t.Fatalf("error = %q", call.Error)
	}

	call = tb.Execute(context.Background(), "u1", ToolAddTask, `{"title":"   "}`)
	if !strings.Contains(call.Error, "title") {
		t.Fatalf("error = %q", call.Error)
	}

	call = tb.Execute(context.Background(), "u1", "drop_table", `{}`)
	if !strings.Contains(call.Error, "unknown tool") {
		t.Fatalf("error = %q", call.Error)
	}
}
