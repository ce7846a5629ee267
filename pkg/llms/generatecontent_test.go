package llms_test

import (
	"testing"

	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/stretchr/testify/assert"
)

func TestTextParts(t *testing.T) {
	t.Parallel()
	mc := llms.MessageFromTextParts(llms.RoleHuman, "a", "b", "c")
	assert.Equal(t, llms.RoleHuman, mc.Role)
	assert.Len(t, mc.Parts, 3)
	assert.Equal(t, "a\nb\nc\n", mc.GetContent())
}

func Test_MessageFromToolCalls(t *testing.T) {
	t.Parallel()
	m := llms.MessageFromToolCalls(llms.RoleAI,
		llms.ToolCall{ID: "1", Type: "function", FunctionCall: &llms.FunctionCall{Name: "echo", Arguments: `{"a":1}`}},
		llms.ToolCall{ID: "2", Type: "function"},
	)
	assert.Equal(t, llms.RoleAI, m.Role)
	assert.Len(t, m.Parts, 2)
	assert.Equal(t,
		"Tool Call: {\"id\":\"1\",\"type\":\"function\",\"function\":{\"name\":\"echo\",\"arguments\":\"{\\\"a\\\":1}\"}}\n"+
			"Tool Call: {\"id\":\"2\",\"type\":\"function\",\"function\":{\"name\":\"\",\"arguments\":\"\"}}\n",
		m.GetContent())

	r := llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{ToolCallID: "1", Name: "echo", Content: "ok"})
	assert.Equal(t, "Response: {\"tool_call_id\":\"1\",\"name\":\"echo\",\"content\":\"ok\"}\n", r.GetContent())
}

func Test_ContentResponse(t *testing.T) {
	t.Parallel()

	var nilResp *llms.ContentResponse
	assert.True(t, nilResp.IsEmpty())
	assert.Empty(t, nilResp.Text())
	assert.Empty(t, nilResp.ToolCalls())
	assert.True(t, (&llms.ContentResponse{}).IsEmpty())

	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: "thinking about it"},
			{ToolCalls: []llms.ToolCall{{ID: "a", FunctionCall: &llms.FunctionCall{Name: "x"}}}},
			nil,
			{Content: "done", ToolCalls: []llms.ToolCall{{ID: "b"}}},
		},
	}
	assert.False(t, resp.IsEmpty())
	assert.Equal(t, "thinking about it\ndone", resp.Text())
	calls := resp.ToolCalls()
	assert.Len(t, calls, 2)
	assert.Equal(t, "x", calls[0].Name())
	assert.Empty(t, calls[1].Name())
	assert.Empty(t, calls[1].Arguments())

	tr := llms.NewTextResponse("hello")
	assert.Equal(t, "hello", tr.Text())
	assert.Empty(t, tr.ToolCalls())
}

func Test_ProviderSupports(t *testing.T) {
	t.Parallel()
	assert.True(t, llms.ProviderDashScope.Supports(llms.CapabilityThinking))
	assert.False(t, llms.ProviderOpenAI.Supports(llms.CapabilityThinking))
	assert.True(t, llms.ProviderAnthropic.Supports(llms.CapabilityFunctionCalling))
	assert.False(t, llms.ProviderType("unknown").Supports(llms.CapabilityText))
}
