package openai

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/pkg/llms/openai/internal/openaiclient"
)

var logger = xlog.NewPackageLogger("github.com/lvchiyang/aiteacher", "openai")

var (
	// ErrEmptyResponse is returned when the API returns no choices.
	ErrEmptyResponse = openaiclient.ErrEmptyResponse
	// ErrMissingToken is returned when no API token is configured.
	ErrMissingToken = errors.New("missing the API token, set it via option or environment")
)

const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleUser      = "user"
	RoleTool      = "tool"
)

// ChatMessage is a message of the chat completions API.
type ChatMessage = openaiclient.ChatMessage

// LLM is a chat model served by an OpenAI-compatible endpoint.
type LLM struct {
	client *openaiclient.Client
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI-compatible LLM.
// The token must be available before any request is made.
func New(opts ...Option) (*LLM, error) {
	o := newOptions(opts...)
	if o.token == "" {
		return nil, errors.WithStack(ErrMissingToken)
	}
	c, err := openaiclient.New(o.provider, o.model, o.token, o.baseURL, o.organization, o.httpClient)
	if err != nil {
		return nil, err
	}
	return &LLM{
		client: c,
	}, nil
}

// GetName returns the default model name.
func (o *LLM) GetName() string {
	return o.client.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return o.client.Provider
}

// BaseURL returns the endpoint of the model.
func (o *LLM) BaseURL() string {
	return o.client.BaseURL()
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(options...)

	chatMsgs, err := toChatMessages(messages)
	if err != nil {
		return nil, err
	}

	req := &openaiclient.ChatRequest{
		Model:          opts.Model,
		Messages:       chatMsgs,
		Temperature:    opts.Temperature,
		TopP:           opts.TopP,
		TopK:           opts.TopK,
		MaxTokens:      opts.MaxTokens,
		StopWords:      opts.StopWords,
		Seed:           opts.Seed,
		ToolChoice:     opts.ToolChoice,
		Metadata:       opts.Metadata,
		ResponseFormat: opts.ResponseFormat,
		EnableThinking: opts.EnableThinking,
	}
	for _, tool := range opts.Tools {
		if tool.Type != "function" || tool.Function == nil {
			return nil, errors.Errorf("tool type %v not supported", tool.Type)
		}
		req.Tools = append(req.Tools, tool)
	}

	result, err := o.client.CreateChat(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"model", result.Model,
		"id", result.ID,
		"prompt_tokens", result.Usage.PromptTokens,
		"completion_tokens", result.Usage.CompletionTokens,
	)

	choices := make([]*llms.ContentChoice, 0, len(result.Choices))
	for _, c := range result.Choices {
		if c == nil || c.Message == nil {
			continue
		}
		choice := &llms.ContentChoice{
			Content:          c.Message.Content,
			ReasoningContent: c.Message.ReasoningContent,
			StopReason:       c.FinishReason,
			GenerationInfo: map[string]any{
				"InputTokens":  result.Usage.PromptTokens,
				"OutputTokens": result.Usage.CompletionTokens,
				"TotalTokens":  result.Usage.TotalTokens,
			},
		}
		for _, tc := range c.Message.ToolCalls {
			choice.ToolCalls = append(choice.ToolCalls, llms.ToolCall{
				ID:   tc.ID,
				Type: tc.Type,
				FunctionCall: &llms.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		choices = append(choices, choice)
	}
	if len(choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return &llms.ContentResponse{Choices: choices}, nil
}

func toChatMessages(messages []llms.Message) ([]*ChatMessage, error) {
	chatMsgs := make([]*ChatMessage, 0, len(messages))
	for _, mc := range messages {
		msg := &ChatMessage{}
		switch mc.Role {
		case llms.RoleSystem:
			msg.Role = RoleSystem
		case llms.RoleAI:
			msg.Role = RoleAssistant
		case llms.RoleHuman:
			msg.Role = RoleUser
		case llms.RoleTool:
			msg.Role = RoleTool
			if len(mc.Parts) != 1 {
				return nil, errors.Errorf("expected exactly one part for role %v, got %v", mc.Role, len(mc.Parts))
			}
			p, ok := mc.Parts[0].(llms.ToolCallResponse)
			if !ok {
				return nil, errors.Errorf("expected part of type ToolCallResponse for role %v, got %T", mc.Role, mc.Parts[0])
			}
			msg.ToolCallID = p.ToolCallID
			msg.Content = p.Content
			chatMsgs = append(chatMsgs, msg)
			continue
		default:
			return nil, errors.Wrapf(llms.ErrUnexpectedRole, "role %v not supported", mc.Role)
		}

		for _, part := range mc.Parts {
			switch p := part.(type) {
			case llms.TextContent:
				if msg.Content != "" {
					msg.Content += "\n"
				}
				msg.Content += p.Text
			case llms.ToolCall:
				msg.ToolCalls = append(msg.ToolCalls, openaiclient.ToolCall{
					ID:   p.ID,
					Type: "function",
					Function: openaiclient.ToolFunction{
						Name:      p.Name(),
						Arguments: p.Arguments(),
					},
				})
			}
		}
		chatMsgs = append(chatMsgs, msg)
	}
	return chatMsgs, nil
}
