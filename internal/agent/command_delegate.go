package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"todo_api/internal/domain"
	"todo_api/internal/logger"
	"todo_api/internal/service"
)

// CommandDelegate answers chat turns with the command interpreter. It is the
// delegate used when no language model is configured.
type CommandDelegate struct {
	interpreter *service.CommandInterpreter
	history     service.ConversationStore
}

func NewCommandDelegate(interpreter *service.CommandInterpreter, history service.ConversationStore) *CommandDelegate {
	return &CommandDelegate{interpreter: interpreter, history: history}
}

func (d *CommandDelegate) Run(ctx context.Context, req Request) (*Result, error) {
	if _, err := d.history.AppendMessage(ctx, req.ConversationID, domain.RoleUser, req.Message); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	cmd := service.Parse(req.Message)
	call, hasCall := toolCallFor(cmd)

	var reply string
	res, err := d.interpreter.Run(ctx, req.UserID, cmd)
	switch {
	case err == nil:
		reply = res.Reply
		if hasCall {
			call.Result = commandResultValue(res)
		}
	case domain.IsValidation(err) || domain.IsNotFound(err):
		reply = "Sorry, " + err.Error() + "."
		call.Error = err.Error()
	default:
		return nil, err
	}

	if _, err := d.history.AppendMessage(ctx, req.ConversationID, domain.RoleAssistant, reply); err != nil {
		return nil, fmt.Errorf("store assistant reply: %w", err)
	}

	calls := []domain.ToolCall{}
	if hasCall {
		calls = append(calls, call)
	}

	logger.WithContext(ctx).Debug("command chat handled", "user_id", req.UserID, "conversation_id", req.ConversationID, "intent", cmd.Intent)
	return &Result{Reply: reply, ConversationID: req.ConversationID, ToolCalls: calls}, nil
}

// toolCallFor maps a command to the tool the LLM delegate would have used
func toolCallFor(cmd service.Command) (domain.ToolCall, bool) {
	var (
		name string
		args any
	)
	switch cmd.Intent {
	case service.IntentAdd:
		name, args = ToolAddTask, map[string]any{"title": cmd.Title}
	case service.IntentShow:
		name, args = ToolListTasks, map[string]any{}
	case service.IntentComplete:
		name, args = ToolCompleteTask, map[string]any{"task_id": cmd.TaskID}
	case service.IntentDelete:
		name, args = ToolDeleteTask, map[string]any{"task_id": cmd.TaskID}
	default:
		return domain.ToolCall{}, false
	}
	raw, _ := json.Marshal(args)
	return domain.ToolCall{Name: name, Arguments: raw}, true
}

func commandResultValue(res *service.CommandResult) any {
	if res.Intent == service.IntentShow {
		return res.Tasks
	}
	return res.Task
}
