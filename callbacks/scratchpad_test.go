package callbacks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lvchiyang/aiteacher/chatmodel"
	"github.com/lvchiyang/aiteacher/mocks/mockllms"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeAgent struct{ name string }

func (a *fakeAgent) Name() string        { return a.name }
func (a *fakeAgent) Description() string { return "desc" }
func (a *fakeAgent) RunOnce(context.Context, string) (string, error) {
	return "", nil
}

func newTestChatContext() (context.Context, chatmodel.ChatContext) {
	chatCtx := chatmodel.NewChatContext("chatid", "user1")
	ctx := chatmodel.WithChatContext(context.Background(), chatCtx)
	return ctx, chatCtx
}

func TestScratchpad_StartRun_EndRun(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeVerbose)
	ctx, cctx := newTestChatContext()
	assert.Equal(t, ctx, sp.StartRun(ctx))

	r := sp.runs[cctx.GetChatID()]
	require.NotNil(t, r)
	r.stats.AgentCalls = 2
	r.stats.AgentCallsFailed = 1
	r.stats.ToolsCalls = 3
	r.stats.ToolsCallsFailed = 2
	r.stats.ToolNotFound = 1

	stats, buf := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, "chatid", stats.ChatID)
	assert.NotEmpty(t, stats.RunID)
	assert.Contains(t, string(buf), "Run Started")
	assert.Contains(t, string(buf), "Run Ended")
	assert.Contains(t, string(buf), "Agent calls: 2, Failed: 1")
	assert.Contains(t, string(buf), "Tool calls: 3, Failed: 2, Not Found: 1")
	_, ok := sp.runs[cctx.GetChatID()]
	assert.False(t, ok)

	s2, _ := sp.EndRun(ctx)
	assert.Nil(t, s2)
}

func TestScratchpad_StartRun_NoChatContext(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeDefault)
	ctx := sp.StartRun(context.Background())
	chatID := chatmodel.GetChatID(ctx)
	require.NotEmpty(t, chatID)
	assert.NotNil(t, sp.getRun(ctx))
}

func TestScratchpad_getRun_nil(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeDefault)
	assert.Nil(t, sp.getRun(context.Background()))
	ctx, _ := newTestChatContext()
	assert.Nil(t, sp.getRun(ctx))
}

func TestScratchpad_OnCallbacks(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	llm := mockllms.NewMockModel(ctrl)
	llm.EXPECT().GetName().Return("qwen-plus").AnyTimes()

	sp := NewScratchpad(ModeVerbose)
	ctx, _ := newTestChatContext()
	sp.StartRun(ctx)

	agent := &fakeAgent{name: "A1"}
	tool := tools.New("T1", "desc", nil)
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        "Answer 1",
			GenerationInfo: map[string]any{"InputTokens": 3, "OutputTokens": 2, "TotalTokens": 5},
		}},
	}
	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "foo"),
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{ID: "c1", FunctionCall: &llms.FunctionCall{Name: "T1"}}),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{ToolCallID: "c1", Name: "T1", Content: "ok"}),
	}

	sp.OnAgentStart(ctx, agent, "input")
	sp.OnLLMCallStart(ctx, agent, llm, messages)
	sp.OnLLMCallEnd(ctx, agent, llm, resp)
	sp.OnToolStart(ctx, tool, agent.Name(), "tinput")
	sp.OnToolEnd(ctx, tool, agent.Name(), "tinput", "toutput")
	sp.OnToolError(ctx, tool, agent.Name(), "tinput", errors.New("terr"))
	sp.OnToolNotFound(ctx, agent, "T2")
	sp.OnAgentEnd(ctx, agent, "input", "Answer 1")
	sp.OnAgentError(ctx, agent, "input", errors.New("fail"))

	stats, output := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, uint32(1), stats.AgentCalls)
	assert.Equal(t, uint32(1), stats.AgentCallsSucceeded)
	assert.Equal(t, uint32(1), stats.AgentCallsFailed)
	assert.Equal(t, uint32(1), stats.LLMCalls)
	assert.Equal(t, uint32(3), stats.TotalMessages)
	assert.Equal(t, uint32(1), stats.ToolsCalls)
	assert.Equal(t, uint32(1), stats.ToolsCallsSucceeded)
	assert.Equal(t, uint32(1), stats.ToolsCallsFailed)
	assert.Equal(t, uint32(1), stats.ToolNotFound)
	assert.NotZero(t, stats.LLMBytesOut)
	assert.NotZero(t, stats.LLMBytesIn)

	outStr := string(output)
	assert.Contains(t, outStr, "A1 *** Agent Start ***")
	assert.Contains(t, outStr, "A1 Output: Answer 1")
	assert.Contains(t, outStr, "A1 *** Agent End ***")
	assert.Contains(t, outStr, "A1 *** LLM Call *** qwen-plus model, 3 messages")
	assert.Contains(t, outStr, "1 texts, 0 tool calls, 0 tool responses")
	assert.Contains(t, outStr, "A1 T1 *** Tool Start ***")
	assert.Contains(t, outStr, "A1 T1 Output: toutput")
	assert.Contains(t, outStr, "A1 T1 *** Tool Error *** terr")
	assert.Contains(t, outStr, "A1 *** Tool Not Found *** T2")
	assert.Contains(t, outStr, "A1 *** Error *** fail")

	// no run: the events are ignored
	sp.OnAgentStart(ctx, agent, "input")
	sp.OnAgentEnd(ctx, agent, "input", "output")
	sp.OnAgentError(ctx, agent, "input", errors.New("fail2"))
	sp.OnLLMCallStart(ctx, agent, llm, nil)
	sp.OnLLMCallEnd(ctx, agent, llm, resp)
	sp.OnToolStart(ctx, tool, agent.Name(), "tinput")
	sp.OnToolEnd(ctx, tool, agent.Name(), "tinput", "toutput")
	sp.OnToolError(ctx, tool, agent.Name(), "tinput", errors.New("terr2"))
	sp.OnToolNotFound(ctx, agent, "T3")
	assert.Empty(t, sp.runs)
}

func Test_run_print_format(t *testing.T) {
	oldTimeFn := TimeNowFn
	TimeNowFn = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { TimeNowFn = oldTimeFn }()

	r := &run{stats: RunStats{ChatID: "chat", RunID: "run"}}
	r.print("hello", "again")
	lines := strings.Split(r.w.String(), "\n")
	require.NotEmpty(t, lines[0])
	assert.Equal(t, "2024-01-01 12:00:00 chat.run hello again", lines[0])
}
