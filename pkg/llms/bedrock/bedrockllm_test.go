package bedrock_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/pkg/llms/bedrock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	input    *bedrockruntime.InvokeModelInput
	response string
	err      error
}

func (f *fakeClient) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.response)}, nil
}

func (f *fakeClient) body(t *testing.T) map[string]any {
	t.Helper()
	require.NotNil(t, f.input)
	var m map[string]any
	require.NoError(t, json.Unmarshal(f.input.Body, &m))
	return m
}

func TestNew(t *testing.T) {
	llm, err := bedrock.New(bedrock.WithClient(&fakeClient{}))
	require.NoError(t, err)
	assert.Equal(t, bedrock.ModelAnthropicClaudeSonnet45, llm.GetName())
	assert.Equal(t, llms.ProviderBedrock, llm.GetProviderType())

	llm, err = bedrock.New(
		bedrock.WithClient(&fakeClient{}),
		bedrock.WithModel(bedrock.ModelAnthropicClaudeHaiku45),
		bedrock.WithRegion("us-west-2"),
		bedrock.WithCredentials("AKID", "SECRET"),
	)
	require.NoError(t, err)
	assert.Equal(t, bedrock.ModelAnthropicClaudeHaiku45, llm.GetName())
}

func TestGenerateContent(t *testing.T) {
	client := &fakeClient{
		response: `{
			"type": "message",
			"role": "assistant",
			"content": [
				{"type": "text", "text": "Let me check."},
				{"type": "tool_use", "id": "toolu_1", "name": "get_weather", "input": {"location": "Boston"}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`,
	}
	llm, err := bedrock.New(bedrock.WithClient(client))
	require.NoError(t, err)

	resp, err := llm.GenerateContent(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "be brief"),
		llms.MessageFromTextParts(llms.RoleHuman, "weather in Boston?"),
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
			ID:           "toolu_0",
			FunctionCall: &llms.FunctionCall{Name: "get_weather", Arguments: `{"location":"NYC"}`},
		}),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{ToolCallID: "toolu_0", Content: "sunny"}),
	},
		llms.WithMaxTokens(512),
		llms.WithTools([]llms.Tool{{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        "get_weather",
				Description: "Get the weather",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{"location": map[string]any{"type": "string"}},
					"required":   []any{"location"},
				},
			},
		}}),
	)
	require.NoError(t, err)

	assert.Equal(t, bedrock.ModelAnthropicClaudeSonnet45, *client.input.ModelId)
	body := client.body(t)
	assert.Equal(t, "bedrock-2023-05-31", body["anthropic_version"])
	assert.Equal(t, "be brief", body["system"])
	assert.EqualValues(t, 512, body["max_tokens"])

	messages := body["messages"].([]any)
	require.Len(t, messages, 3)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", messages[1].(map[string]any)["role"])
	result := messages[2].(map[string]any)["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "tool_result", result["type"])
	assert.Equal(t, "toolu_0", result["tool_use_id"])

	tools := body["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, []any{"location"}, tools[0].(map[string]any)["input_schema"].(map[string]any)["required"])

	require.Len(t, resp.Choices, 2)
	assert.Equal(t, "Let me check.", resp.Text())
	calls := resp.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "toolu_1", calls[0].ID)
	assert.Equal(t, "get_weather", calls[0].Name())
	assert.JSONEq(t, `{"location":"Boston"}`, calls[0].Arguments())
	assert.Equal(t, 15, resp.Choices[0].GenerationInfo["TotalTokens"])
}

func TestGenerateContent_Errors(t *testing.T) {
	client := &fakeClient{err: errors.New("throttled")}
	llm, err := bedrock.New(bedrock.WithClient(client))
	require.NoError(t, err)

	msgs := []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, "hi")}

	_, err = llm.GenerateContent(context.Background(), msgs)
	assert.EqualError(t, err, "throttled")

	client.err = nil
	client.response = `{"content": [{"type": "text", "text": "cut"}], "stop_reason": "max_tokens"}`
	_, err = llm.GenerateContent(context.Background(), msgs)
	assert.EqualError(t, err, "completed due to max_tokens. Maybe try increasing max tokens")

	client.response = `{"content": [], "stop_reason": "end_turn"}`
	_, err = llm.GenerateContent(context.Background(), msgs)
	assert.EqualError(t, err, "no results")

	_, err = llm.GenerateContent(context.Background(), msgs, llms.WithModel("meta.llama3-2-1b-instruct-v1:0"))
	assert.EqualError(t, err, "bedrock: unsupported provider: meta")

	_, err = llm.GenerateContent(context.Background(), []llms.Message{llms.MessageFromTextParts(llms.Role("generic"), "x")})
	assert.EqualError(t, err, "role not supported: generic")
}
