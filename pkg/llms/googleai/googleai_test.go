package googleai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/pkg/llms/googleai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertMessages(t *testing.T) {
	t.Parallel()

	history, system, err := googleai.ConvertMessages([]llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "be brief"),
		llms.MessageFromTextParts(llms.RoleHuman, "weather in Boston?"),
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
			ID:           "call_1",
			FunctionCall: &llms.FunctionCall{Name: "get_weather", Arguments: `{"location":"Boston"}`},
		}),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{ToolCallID: "call_1", Name: "get_weather", Content: "sunny"}),
	})
	require.NoError(t, err)

	require.NotNil(t, system)
	assert.Equal(t, "be brief", system.Parts[0].Text)

	require.Len(t, history, 3)
	assert.Equal(t, googleai.RoleUser, history[0].Role)
	assert.Equal(t, googleai.RoleModel, history[1].Role)
	assert.Equal(t, "get_weather", history[1].Parts[0].FunctionCall.Name)
	assert.Equal(t, map[string]any{"location": "Boston"}, history[1].Parts[0].FunctionCall.Args)
	assert.Equal(t, googleai.RoleUser, history[2].Role)
	assert.Equal(t, map[string]any{"response": "sunny"}, history[2].Parts[0].FunctionResponse.Response)

	_, _, err = googleai.ConvertMessages([]llms.Message{
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{FunctionCall: &llms.FunctionCall{Name: "x", Arguments: "{bad"}}),
	})
	assert.ErrorContains(t, err, "failed to unmarshal tool call arguments")

	_, _, err = googleai.ConvertMessages([]llms.Message{llms.MessageFromTextParts(llms.Role("generic"), "x")})
	assert.EqualError(t, err, "role generic not supported")
}

func TestNewGenerateContentConfig(t *testing.T) {
	t.Parallel()

	cfg := googleai.NewGenerateContentConfig(llms.NewCallOptions(
		llms.WithMaxTokens(100), llms.WithTemperature(0.7), llms.WithStopWords([]string{"END"}),
	), genai.HarmBlockThresholdBlockOnlyHigh)
	assert.Equal(t, int32(100), cfg.MaxOutputTokens)
	assert.Equal(t, float32(0.7), *cfg.Temperature)
	assert.Nil(t, cfg.TopP)
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, []string{"END"}, cfg.StopSequences)
	assert.Len(t, cfg.SafetySettings, 4)
}

func TestGenerateContent(t *testing.T) {
	var (
		path string
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [
					{"text": "Let me check."},
					{"functionCall": {"name": "get_weather", "args": {"location": "Boston"}}}
				]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
		}`))
	}))
	defer srv.Close()

	llm, err := googleai.New(context.Background(),
		googleai.WithAPIKey("fake-key"),
		googleai.WithBaseURL(srv.URL),
		googleai.WithDefaultModel("gemini-2.5-flash"),
	)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", llm.GetName())
	assert.Equal(t, llms.ProviderGoogleAI, llm.GetProviderType())

	resp, err := llm.GenerateContent(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "be brief"),
		llms.MessageFromTextParts(llms.RoleHuman, "weather in Boston?"),
	}, llms.WithTools([]llms.Tool{{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:       "get_weather",
			Parameters: map[string]any{"type": "object", "properties": map[string]any{"location": map[string]any{"type": "string"}}},
		},
	}}))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, "models/gemini-2.5-flash:generateContent"), path)
	assert.NotNil(t, body["systemInstruction"])
	assert.NotNil(t, body["tools"])

	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Let me check.", resp.Text())
	assert.Equal(t, "STOP", resp.Choices[0].StopReason)
	calls := resp.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "get_weather", calls[0].Name())
	assert.JSONEq(t, `{"location":"Boston"}`, calls[0].Arguments())
}
