package agents

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"github.com/lvchiyang/aiteacher/chatmodel"
	"github.com/lvchiyang/aiteacher/memory"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/pkg/llmutils"
	"github.com/lvchiyang/aiteacher/pkg/metricskey"
	"github.com/lvchiyang/aiteacher/tools"
)

// Agent runs the tool-call loop against one model.
// An Agent is not safe for concurrent turns, Stop and IsRunning
// may be called from any goroutine.
type Agent struct {
	llm         llms.Model
	name        string
	description string
	cfg         *Config
	registry    tools.Registry
	memory      *memory.Memory
	chatID      string
	running     atomic.Bool
}

var _ IAgent = (*Agent)(nil)

// New returns an Agent for the model.
func New(model llms.Model, opts ...Option) *Agent {
	a := &Agent{
		llm:    model,
		name:   "Agent",
		cfg:    NewConfig(opts...),
		chatID: chatmodel.NewChatID(),
	}
	a.memory = a.cfg.Memory
	if a.memory == nil {
		a.memory = memory.New(a.cfg.MemoryCapacity, memory.WithEvictionHook(func(memory.Entry) {
			metricskey.StatsMemoryEvictions.IncrCounter(1, a.name)
		}))
	}
	return a
}

// WithName sets the name of the Agent.
func (a *Agent) WithName(name string) *Agent {
	a.name = name
	return a
}

// WithDescription sets the description of the Agent.
func (a *Agent) WithDescription(description string) *Agent {
	a.description = description
	return a
}

// WithTools adds the tools, logging and skipping the ones that can not be added.
func (a *Agent) WithTools(list ...*tools.Tool) *Agent {
	for _, t := range list {
		if err := a.AddTool(t); err != nil {
			logger.KV(xlog.WARNING,
				"agent", a.name,
				"status", "skipped_tool",
				"err", err.Error(),
			)
		}
	}
	return a
}

// Name returns the name of the Agent.
func (a *Agent) Name() string {
	return a.name
}

// Description returns the description of the Agent.
func (a *Agent) Description() string {
	return a.description
}

// Model returns the model of the Agent.
func (a *Agent) Model() llms.Model {
	return a.llm
}

// Memory returns the memory of the Agent.
func (a *Agent) Memory() *memory.Memory {
	return a.memory
}

// Config returns the Agent configuration.
func (a *Agent) Config() Config {
	return *a.cfg
}

// AddTool registers the tool. A tool with the same name is rejected
// with tools.ErrDuplicateTool, use ReplaceTool to override it.
func (a *Agent) AddTool(t *tools.Tool) error {
	return errors.WithMessagef(a.registry.Add(t), "agent %q", a.name)
}

// ReplaceTool registers the tool, overriding a tool with the same name.
func (a *Agent) ReplaceTool(t *tools.Tool) error {
	return errors.WithMessagef(a.registry.Replace(t), "agent %q", a.name)
}

// GetTools returns the tools in registration order.
func (a *Agent) GetTools() []*tools.Tool {
	return a.registry.List()
}

// Tool returns the tool by name.
func (a *Agent) Tool(name string) (*tools.Tool, error) {
	return a.registry.Get(name)
}

// CallTool invokes the named tool directly.
// The errors are returned to the caller.
func (a *Agent) CallTool(ctx context.Context, name string, args tools.Arguments) (any, error) {
	t, err := a.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return t.Invoke(ctx, args)
}

// RunOnce runs a single turn: the input is recorded in memory, the model is
// called and the requested tools are executed until the model returns a
// response without tool calls or the tool iterations are exhausted.
func (a *Agent) RunOnce(ctx context.Context, input string) (string, error) {
	started := time.Now()
	defer metricskey.PerfAgentTurn.MeasureSince(started, a.name)

	callback := a.cfg.CallbackHandler
	if callback != nil {
		callback.OnAgentStart(ctx, a, input)
	}

	output, err := a.run(ctx, input)
	if err != nil {
		metricskey.StatsAgentTurnsFailed.IncrCounter(1, a.name)
		if callback != nil {
			callback.OnAgentError(ctx, a, input, err)
		}
		return output, err
	}

	metricskey.StatsAgentTurnsSucceeded.IncrCounter(1, a.name)
	if callback != nil {
		callback.OnAgentEnd(ctx, a, input, output)
	}
	return output, nil
}

func (a *Agent) run(ctx context.Context, input string) (string, error) {
	chatID := values.StringsCoalesce(chatmodel.GetChatID(ctx), a.chatID)
	turnID := chatmodel.NewTurnID()
	meta := map[string]any{
		"chat_id": chatID,
		"turn_id": turnID,
	}

	_, err := a.memory.Add(memory.Content{Role: memory.RoleUser, Text: input}, memory.WithMetadata(meta))
	if err != nil {
		return "", errors.WithMessage(err, "failed to record input")
	}

	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, a.SystemPrompt(ctx, input)),
		llms.MessageFromTextParts(llms.RoleHuman, input),
	}
	callOpts := a.callOptions()

	resp, err := a.generate(ctx, messages, callOpts)
	if err != nil {
		return ModelUnavailableResponse, err
	}

	maxIterations := a.cfg.MaxToolIterations
	iterations := 0
	var pending []llms.ToolCall
	for {
		calls := resp.ToolCalls()
		if len(calls) == 0 {
			break
		}
		if iterations >= maxIterations {
			metricskey.StatsAgentToolIterationsExhausted.IncrCounter(1, a.name)
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"turn_id", turnID,
				"status", "tool_iterations_exhausted",
				"iterations", iterations,
				"pending_calls", len(calls),
			)
			pending = calls
			break
		}
		if remaining := maxIterations - iterations; len(calls) > remaining {
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"turn_id", turnID,
				"status", "tool_calls_skipped",
				"skipped", len(calls)-remaining,
			)
			calls = calls[:remaining]
		}

		for i := range calls {
			calls[i].ID = values.StringsCoalesce(calls[i].ID, "call_"+uuid.NewString())
			calls[i].Type = values.StringsCoalesce(calls[i].Type, tools.KindFunction)
		}

		results := a.executeToolCalls(ctx, calls, meta)
		iterations += len(calls)

		messages = append(messages, llms.MessageFromToolCalls(llms.RoleAI, calls...))
		for _, r := range results {
			messages = append(messages, llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
				ToolCallID: r.call.ID,
				Name:       r.call.Name(),
				Content:    r.observation,
			}))
		}

		next, err := a.generate(ctx, messages, callOpts)
		if err != nil {
			last := results[len(results)-1]
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"turn_id", turnID,
				"status", "followup_fallback",
				"tool", last.call.Name(),
				"err", err.Error(),
			)
			next = llms.NewTextResponse(last.fallback)
		}
		resp = next
	}

	output := resp.Text()
	if output == "" && len(pending) > 0 {
		output = pendingCallsText(pending)
	}
	_, err = a.memory.Add(memory.Content{Role: memory.RoleAgent, Text: output}, memory.WithMetadata(meta))
	if err != nil {
		return output, errors.WithMessage(err, "failed to record output")
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", a.name,
		"chat_id", chatID,
		"turn_id", turnID,
		"tool_calls", iterations,
		"human", slices.StringUpto(input, 64),
		"ai", slices.StringUpto(output, 64),
	)
	return output, nil
}

func (a *Agent) callOptions() []llms.CallOption {
	opts := a.cfg.Generation.Options()
	if specs := a.registry.Specs(); len(specs) > 0 {
		opts = append(opts, llms.WithTools(specs))
	}
	return opts
}

// generate calls the model. A failed call or a response without choices
// is returned as ErrModelUnavailable.
func (a *Agent) generate(ctx context.Context, messages []llms.Message, opts []llms.CallOption) (*llms.ContentResponse, error) {
	modelName := a.llm.GetName()
	callback := a.cfg.CallbackHandler
	if callback != nil {
		callback.OnLLMCallStart(ctx, a, a.llm, messages)
	}

	bytesSent := llmutils.CountMessagesContentSize(messages)
	metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messages)), a.name, modelName)
	metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), a.name, modelName)

	started := time.Now()
	resp, err := a.llm.GenerateContent(ctx, messages, opts...)
	metricskey.PerfLLMCall.MeasureSince(started, a.name, modelName)

	if err == nil && resp.IsEmpty() {
		err = errors.New("empty response")
	}
	if err != nil {
		metricskey.StatsLLMUnavailable.IncrCounter(1, a.name, modelName)
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", a.name,
			"model", modelName,
			"status", "model_unavailable",
			"err", err.Error(),
		)
		return nil, errors.Mark(errors.Wrapf(err, "agent %q", a.name), ErrModelUnavailable)
	}

	if callback != nil {
		callback.OnLLMCallEnd(ctx, a, a.llm, resp)
	}

	metricskey.StatsLLMBytesReceived.IncrCounter(float64(llmutils.CountResponseContentSize(resp)), a.name, modelName)
	tokensIn, tokensOut, _ := llmutils.CountTokens(resp)
	metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), a.name, modelName)
	metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), a.name, modelName)
	return resp, nil
}

type toolResult struct {
	call llms.ToolCall
	// observation is sent back to the model
	observation string
	// fallback is the turn output when the follow-up model call fails
	fallback string
}

// executeToolCalls runs the calls in order. Failures are reported
// to the model as observations and do not end the turn.
func (a *Agent) executeToolCalls(ctx context.Context, calls []llms.ToolCall, meta map[string]any) []toolResult {
	results := make([]toolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, a.executeToolCall(ctx, call, meta))
	}
	return results
}

func (a *Agent) executeToolCall(ctx context.Context, call llms.ToolCall, meta map[string]any) toolResult {
	name := call.Name()
	args := tools.DecodeArguments(call.Arguments())
	callback := a.cfg.CallbackHandler

	failed := func(err error) toolResult {
		return toolResult{
			call:        call,
			observation: observe(name, nil, err),
			fallback:    fmt.Sprintf("Tool %s call failed: %v", name, err),
		}
	}

	tool, err := a.registry.Get(name)
	if err != nil {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, name)
		if callback != nil {
			callback.OnToolNotFound(ctx, a, name)
		}
		available := strings.Join(a.registry.Names(), ", ")
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.name,
			"status", "tool_not_found",
			"tool", name,
			"available_tools", available,
		)
		return failed(errors.Mark(
			errors.Newf("Tool `%s` not found. Please check the tool name and try again with exact match. Available tools: %s", name, available),
			tools.ErrToolNotFound))
	}

	if !args.Decoded {
		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", a.name,
			"status", "raw_arguments",
			"tool", name,
			"arguments", slices.StringUpto(args.Raw, 64),
		)
	}

	input := args.String()
	if callback != nil {
		callback.OnToolStart(ctx, tool, a.name, input)
	}

	started := time.Now()
	out, err := tool.Invoke(ctx, args)
	metricskey.PerfToolCall.MeasureSince(started, name)

	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		if callback != nil {
			callback.OnToolError(ctx, tool, a.name, input, err)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.name,
			"status", "tool_call_failed",
			"tool", name,
			"err", err.Error(),
		)
		return failed(err)
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	text := llmutils.Stringify(out)
	if callback != nil {
		callback.OnToolEnd(ctx, tool, a.name, input, text)
	}

	var recorded any = args.Values
	if !args.Decoded {
		recorded = args.Raw
	}
	_, err = a.memory.Add(memory.Content{
		Role:   memory.RoleTool,
		Tool:   name,
		Input:  recorded,
		Output: out,
	}, memory.WithMetadata(meta))
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", a.name,
			"status", "failed_to_record_tool_output",
			"tool", name,
			"err", err.Error(),
		)
	}

	return toolResult{
		call:        call,
		observation: observe(name, out, nil),
		fallback:    text,
	}
}

type toolOutput struct {
	Tool   string `json:"tool"`
	Output any    `json:"output"`
}

type toolError struct {
	Tool  string `json:"tool"`
	Error string `json:"error"`
}

// observe returns the JSON observation of a tool call.
func observe(tool string, output any, err error) string {
	if err != nil {
		return llmutils.ToJSON(toolError{Tool: tool, Error: err.Error()})
	}
	if js := llmutils.ToJSON(toolOutput{Tool: tool, Output: output}); js != "" {
		return js
	}
	return llmutils.ToJSON(toolOutput{Tool: tool, Output: llmutils.Stringify(output)})
}

// pendingCallsText renders the tool calls left when the iteration bound is
// reached, one {"tool","input"} object per call.
func pendingCallsText(calls []llms.ToolCall) string {
	list := make([]map[string]any, len(calls))
	for i, c := range calls {
		list[i] = map[string]any{
			"tool":  c.Name(),
			"input": tools.DecodeArguments(c.Arguments()),
		}
	}
	if len(list) == 1 {
		return llmutils.ToJSON(list[0])
	}
	return llmutils.ToJSON(list)
}
