package bedrockclient

import (
	"testing"

	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProvider(t *testing.T) {
	tests := []struct {
		name     string
		modelID  string
		expected string
	}{
		{
			name:     "Direct Anthropic model ID",
			modelID:  "anthropic.claude-3-sonnet-20240229-v1:0",
			expected: "anthropic",
		},
		{
			name:     "Inference Profile with US region",
			modelID:  "us.anthropic.claude-3-5-sonnet-20241022-v2:0",
			expected: "anthropic",
		},
		{
			name:     "Inference Profile with EU region",
			modelID:  "eu.anthropic.claude-3-haiku-20240307-v1:0",
			expected: "anthropic",
		},
		{
			name:     "Direct Amazon model ID",
			modelID:  "amazon.titan-text-premier-v1:0",
			expected: "amazon",
		},
		{
			name:     "Inference Profile with Amazon",
			modelID:  "us.amazon.nova-micro-v1:0",
			expected: "amazon",
		},
		{
			name:     "Direct Meta model ID",
			modelID:  "meta.llama3-2-1b-instruct-v1:0",
			expected: "meta",
		},
		{
			name:     "Inference Profile with Meta",
			modelID:  "us.meta.llama3-2-11b-instruct-v1:0",
			expected: "meta",
		},
		{
			name:     "Single part model ID",
			modelID:  "anthropic",
			expected: "anthropic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getProvider(tt.modelID)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestProcessInputMessagesAnthropic(t *testing.T) {
	msgs, system, err := processInputMessagesAnthropic([]Message{
		{Role: llms.RoleSystem, Type: "text", Content: "a"},
		{Role: llms.RoleSystem, Type: "text", Content: "b"},
		{Role: llms.RoleHuman, Type: "text", Content: "hi"},
		{Role: llms.RoleAI, Type: "tool_use", ToolCallID: "1", ToolName: "now"},
		{Role: llms.RoleTool, Type: "tool_result", ToolCallID: "1", Content: "noon"},
		{Role: llms.RoleTool, Type: "tool_result", ToolCallID: "2", Content: "midnight"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a\nb", system)
	require.Len(t, msgs, 3)
	assert.Equal(t, AnthropicRoleUser, msgs[0].Role)
	assert.Equal(t, AnthropicRoleAssistant, msgs[1].Role)
	assert.Equal(t, map[string]any{}, msgs[1].Content[0].Input)
	assert.Equal(t, AnthropicRoleUser, msgs[2].Role)
	assert.Len(t, msgs[2].Content, 2)

	_, _, err = processInputMessagesAnthropic([]Message{
		{Role: llms.RoleSystem, Type: "tool_result"},
	})
	assert.EqualError(t, err, "system prompt must be text")
}

func TestRequiredFields(t *testing.T) {
	assert.Equal(t, []string{"a"}, requiredFields([]string{"a"}))
	assert.Equal(t, []string{"a", "b"}, requiredFields([]any{"a", 1, "b"}))
	assert.Nil(t, requiredFields(nil))
}
