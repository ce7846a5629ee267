package callbacks_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/effective-security/xlog"
	"github.com/lvchiyang/aiteacher/agents"
	"github.com/lvchiyang/aiteacher/callbacks"
	"github.com/lvchiyang/aiteacher/mocks/mockllms"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/tools"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakeAgent struct{ name string }

func (a *fakeAgent) Name() string        { return a.name }
func (a *fakeAgent) Description() string { return "desc" }
func (a *fakeAgent) RunOnce(context.Context, string) (string, error) {
	return "", nil
}

func emit(t *testing.T, cb agents.Callback) {
	ctrl := gomock.NewController(t)
	llm := mockllms.NewMockModel(ctrl)
	llm.EXPECT().GetName().Return("qwen-plus").AnyTimes()

	ctx := context.Background()
	agent := &fakeAgent{name: "test-agent"}
	tool := tools.New("test-tool", "desc", nil)
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:   "test output",
			ToolCalls: []llms.ToolCall{{ID: "1", FunctionCall: &llms.FunctionCall{Name: "test-tool"}}},
		}},
	}

	cb.OnAgentStart(ctx, agent, "test input")
	cb.OnLLMCallStart(ctx, agent, llm, []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, "test input")})
	cb.OnLLMCallEnd(ctx, agent, llm, resp)
	cb.OnToolStart(ctx, tool, agent.Name(), "test input")
	cb.OnToolEnd(ctx, tool, agent.Name(), "test input", "tool output")
	cb.OnToolError(ctx, tool, agent.Name(), "test input", errors.New("test error"))
	cb.OnToolNotFound(ctx, agent, "missing-tool")
	cb.OnAgentEnd(ctx, agent, "test input", "test output")
	cb.OnAgentError(ctx, agent, "test input", errors.New("agent error"))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	emit(t, callbacks.NewPrinter(&buf, callbacks.ModeVerbose))

	res := buf.String()
	assert.Contains(t, res, "Agent Start: test-agent")
	assert.Contains(t, res, "Input: test input")
	assert.Contains(t, res, "LLM Call: test-agent: qwen-plus model, 1 messages")
	assert.Contains(t, res, "LLM Call End: test-agent: qwen-plus model, 1 choices, 1 tool calls")
	assert.Contains(t, res, "Tool Start: test-tool (test-agent)")
	assert.Contains(t, res, "Tool End: test-tool (test-agent)")
	assert.Contains(t, res, "Output: tool output")
	assert.Contains(t, res, "Tool Error: test-tool (test-agent): test error")
	assert.Contains(t, res, "Tool Not Found: missing-tool (test-agent)")
	assert.Contains(t, res, "Agent End: test-agent")
	assert.Contains(t, res, "Output: test output")
	assert.Contains(t, res, "Agent Error: test-agent: agent error")

	buf.Reset()
	emit(t, callbacks.NewPrinter(&buf, callbacks.ModeDefault))
	assert.NotContains(t, buf.String(), "Output:")
}

func TestFanout(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	fanout := callbacks.NewFanout(callbacks.NewPrinter(&buf1, callbacks.ModeDefault))
	fanout.Add(callbacks.NewPrinter(&buf2, callbacks.ModeDefault))
	fanout.Add(callbacks.NewNoop())
	fanout.Add(callbacks.NewPackageLogger(xlog.NewPackageLogger("github.com/lvchiyang/aiteacher", "callbacks_test")))

	emit(t, fanout)
	assert.NotEmpty(t, buf1.String())
	assert.Equal(t, buf1.String(), buf2.String())
}
