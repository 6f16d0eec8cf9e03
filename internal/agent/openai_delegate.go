package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"todo_api/internal/domain"
	"todo_api/internal/logger"
	"todo_api/internal/service"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const systemPrompt = `You manage the to-do list of user %q.
Use the tools to add, list, complete and delete tasks; never invent task ids,
list the tasks first when unsure. Keep replies short and mention task titles.`

type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxSteps     int
	HistoryLimit int
}

// OpenAIDelegate answers chat turns with a chat-completions model that calls
// the Toolbox. The conversation history is replayed on every turn.
type OpenAIDelegate struct {
	client       openai.Client
	model        string
	tools        *Toolbox
	toolParams   []openai.ChatCompletionToolUnionParam
	history      service.ConversationStore
	maxSteps     int
	historyLimit int
}

func NewOpenAIDelegate(cfg OpenAIConfig, tools *Toolbox, history service.ConversationStore, opts ...option.RequestOption) *OpenAIDelegate {
	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 5
	}

	var params []openai.ChatCompletionToolUnionParam
	for _, def := range tools.Definitions() {
		params = append(params, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        def.Name,
			Description: openai.String(def.Description),
			Parameters:  openai.FunctionParameters(def.Parameters),
		}))
	}

	return &OpenAIDelegate{
		client:       openai.NewClient(clientOpts...),
		model:        cfg.Model,
		tools:        tools,
		toolParams:   params,
		history:      history,
		maxSteps:     maxSteps,
		historyLimit: cfg.HistoryLimit,
	}
}

func (d *OpenAIDelegate) Run(ctx context.Context, req Request) (*Result, error) {
	prior, err := d.history.Messages(ctx, req.ConversationID, d.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if _, err := d.history.AppendMessage(ctx, req.ConversationID, domain.RoleUser, req.Message); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prior)+2)
	messages = append(messages, openai.SystemMessage(fmt.Sprintf(systemPrompt, req.UserID)))
	for _, m := range prior {
		switch m.Role {
		case domain.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.Message))

	log := logger.WithContext(ctx).With("user_id", req.UserID, "conversation_id", req.ConversationID)
	calls := []domain.ToolCall{}

	for step := 0; step < d.maxSteps; step++ {
		completion, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(d.model),
			Messages: messages,
			Tools:    d.toolParams,
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return nil, errors.New("chat completion returned no choices")
		}

		msg := completion.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			if _, err := d.history.AppendMessage(ctx, req.ConversationID, domain.RoleAssistant, msg.Content); err != nil {
				return nil, fmt.Errorf("store assistant reply: %w", err)
			}
			log.Debug("agent replied", "steps", step+1, "tool_calls", len(calls))
			return &Result{Reply: msg.Content, ConversationID: req.ConversationID, ToolCalls: calls}, nil
		}

		messages = append(messages, msg.ToParam())
		for _, tc := range msg.ToolCalls {
			call := d.tools.Execute(ctx, req.UserID, tc.Function.Name, tc.Function.Arguments)
			call.ID = tc.ID
			calls = append(calls, call)
			log.Info("agent tool call", "tool", call.Name, "failed", call.Error != "")
			messages = append(messages, openai.ToolMessage(toolContent(call), tc.ID))
		}
	}

	return nil, fmt.Errorf("agent exceeded %d steps without a reply", d.maxSteps)
}

// toolContent is what the model sees as the tool's answer
func toolContent(call domain.ToolCall) string {
	if call.Error != "" {
		b, _ := json.Marshal(map[string]string{"error": call.Error})
		return string(b)
	}
	b, err := json.Marshal(call.Result)
	if err != nil {
		return `{"error":"unencodable result"}`
	}
	return string(b)
}
