package llms_test

import (
	"testing"

	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	tools := []llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name: "test",
			},
		},
	}
	meta := map[string]any{"test": "test"}

	opts := llms.NewCallOptions(
		llms.WithModel("qwen-plus"),
		llms.WithMaxTokens(10),
		llms.WithMaxInputTokens(20),
		llms.WithTemperature(0.5),
		llms.WithStopWords([]string{"stop"}),
		llms.WithTopK(5),
		llms.WithTopP(0.9),
		llms.WithSeed(42),
		llms.WithThinking(true),
		llms.WithTools(tools),
		llms.WithToolChoice("auto"),
		llms.WithMetadata(meta),
		llms.WithResponseFormat(llms.ResponseFormatJSON),
	)
	assert.Equal(t, &llms.CallOptions{
		Model:          "qwen-plus",
		MaxTokens:      10,
		MaxInputTokens: 20,
		Temperature:    0.5,
		StopWords:      []string{"stop"},
		TopK:           5,
		TopP:           0.9,
		Seed:           42,
		EnableThinking: true,
		Tools:          tools,
		ToolChoice:     "auto",
		Metadata:       meta,
		ResponseFormat: llms.ResponseFormatJSON,
	}, opts)

	replaced := llms.NewCallOptions(llms.WithModel("x"), llms.WithOptions(llms.CallOptions{Model: "y"}))
	assert.Equal(t, "y", replaced.Model)
}

func TestGenerationConfig(t *testing.T) {
	def := llms.DefaultGenerationConfig()
	assert.Equal(t, llms.GenerationConfig{
		Temperature:    0.7,
		TopK:           50,
		TopP:           1.0,
		MaxTokens:      1024,
		MaxInputTokens: 1024,
		ResponseFormat: "text",
		EnableThinking: false,
	}, def)

	opts := llms.NewCallOptions(def.Options()...)
	assert.Equal(t, 0.7, opts.Temperature)
	assert.Equal(t, 50, opts.TopK)
	assert.Equal(t, 1.0, opts.TopP)
	assert.Equal(t, 1024, opts.MaxTokens)
	assert.Equal(t, 1024, opts.MaxInputTokens)
	assert.Equal(t, "text", opts.ResponseFormat.Type)
	assert.False(t, opts.EnableThinking)

	merged := llms.GenerationConfig{Temperature: 0.1, EnableThinking: true}.Merge(def)
	assert.Equal(t, 0.1, merged.Temperature)
	assert.Equal(t, 50, merged.TopK)
	assert.Equal(t, "text", merged.ResponseFormat)
	assert.True(t, merged.EnableThinking)

	empty := llms.NewCallOptions(llms.GenerationConfig{}.Options()...)
	assert.Nil(t, empty.ResponseFormat)
	assert.Zero(t, empty.TopK)
	assert.Zero(t, empty.MaxTokens)
}
