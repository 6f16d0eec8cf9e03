package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"todo_api/internal/domain"
	"todo_api/internal/service"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
)

// ToolDefinition describes a tool to a language model
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type toolFunc func(ctx context.Context, userID string, args map[string]any) (any, error)

type tool struct {
	def    ToolDefinition
	schema *jsonschema.Schema
	run    toolFunc
}

// Toolbox exposes task operations as schema-validated tools
type Toolbox struct {
	tools map[string]*tool
	order []string
}

func NewToolbox(tasks *service.TaskService) (*Toolbox, error) {
	taskIDSchema := map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"task_id": map[string]any{"type": "integer", "minimum": 1, "description": "Numeric id of the task"}},
		"required":             []any{"task_id"},
		"additionalProperties": false,
	}

	defs := []struct {
		def ToolDefinition
		run toolFunc
	}{
		{
			def: ToolDefinition{
				Name:        ToolAddTask,
				Description: "Create a new task for the user",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":       map[string]any{"type": "string", "minLength": 1, "description": "Short task title"},
						"description": map[string]any{"type": "string", "description": "Optional details"},
					},
					"required":             []any{"title"},
					"additionalProperties": false,
				},
			},
			run: func(ctx context.Context, userID string, args map[string]any) (any, error) {
				title, _ := args["title"].(string)
				var desc *string
				if d, ok := args["description"].(string); ok {
					desc = &d
				}
				return tasks.Create(ctx, userID, title, desc)
			},
		},
		{
			def: ToolDefinition{
				Name:        ToolListTasks,
				Description: "List all of the user's tasks in id order",
				Parameters: map[string]any{
					"type":                 "object",
					"properties":           map[string]any{},
					"additionalProperties": false,
				},
			},
			run: func(ctx context.Context, userID string, _ map[string]any) (any, error) {
				return tasks.List(ctx, userID)
			},
		},
		{
			def: ToolDefinition{
				Name:        ToolCompleteTask,
				Description: "Toggle a task between done and not done",
				Parameters:  taskIDSchema,
			},
			run: func(ctx context.Context, userID string, args map[string]any) (any, error) {
				return tasks.Toggle(ctx, userID, taskID(args))
			},
		},
		{
			def: ToolDefinition{
				Name:        ToolDeleteTask,
				Description: "Delete a task permanently",
				Parameters:  taskIDSchema,
			},
			run: func(ctx context.Context, userID string, args map[string]any) (any, error) {
				return tasks.Delete(ctx, userID, taskID(args))
			},
		},
	}

	compiler := jsonschema.NewCompiler()
	tb := &Toolbox{tools: make(map[string]*tool, len(defs))}
	for _, d := range defs {
		url := "mem://tools/" + d.def.Name + ".json"
		raw, err := json.Marshal(d.def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %s: %w", d.def.Name, err)
		}
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", d.def.Name, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", d.def.Name, err)
		}
		tb.tools[d.def.Name] = &tool{def: d.def, schema: schema, run: d.run}
		tb.order = append(tb.order, d.def.Name)
	}
	return tb, nil
}

// Definitions returns the tools in a stable order
func (tb *Toolbox) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(tb.order))
	for _, name := range tb.order {
		defs = append(defs, tb.tools[name].def)
	}
	return defs
}

// Execute validates the JSON arguments and runs the tool. Failures are
// recorded on the returned ToolCall instead of being returned.
func (tb *Toolbox) Execute(ctx context.Context, userID, name, arguments string) domain.ToolCall {
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}
	call := domain.ToolCall{Name: name, Arguments: json.RawMessage(arguments)}

	t, ok := tb.tools[name]
	if !ok {
		call.Error = fmt.Sprintf("unknown tool %q", name)
		return call
	}

	var decoded any
	if err := json.Unmarshal([]byte(arguments), &decoded); err != nil {
		call.Arguments = nil
		call.Error = fmt.Sprintf("invalid arguments: %v", err)
		return call
	}
	if err := t.schema.Validate(decoded); err != nil {
		call.Error = fmt.Sprintf("invalid arguments: %v", err)
		return call
	}

	args, _ := decoded.(map[string]any)
	result, err := t.run(ctx, userID, args)
	if err != nil {
		call.Error = err.Error()
		return call
	}
	call.Result = result
	return call
}

func taskID(args map[string]any) int64 {
	switch v := args["task_id"].(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}
