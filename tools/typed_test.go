package tools_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ExplainRequest struct {
	Topic string `json:"topic" validate:"required" jsonschema:"description=The concept to explain"`
	Level string `json:"level,omitempty"`
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

func explain(_ context.Context, in *ExplainRequest) (*ExplainResponse, error) {
	if in.Topic == "fail" {
		return nil, errors.New("cannot explain")
	}
	return &ExplainResponse{Explanation: strings.ToUpper(in.Topic)}, nil
}

func Test_NewTyped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool, err := tools.NewTyped("explain", "Explain a concept", explain)
	require.NoError(t, err)
	assert.True(t, tool.IsBound())

	params := tool.Parameters()
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []any{"topic"}, params["required"])
	props := params["properties"].(map[string]any)
	assert.Contains(t, props, "topic")
	assert.Contains(t, props, "level")

	out, err := tool.Invoke(ctx, tools.DecodeArguments(`{"topic":"recursion"}`))
	require.NoError(t, err)
	assert.Equal(t, &ExplainResponse{Explanation: "RECURSION"}, out)

	_, err = tool.Invoke(ctx, tools.DecodeArguments(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
	assert.True(t, errors.Is(err, tools.ErrToolExecution))

	out, err = tool.Invoke(ctx, tools.DecodeArguments(`{"topic":1}`))
	require.NoError(t, err)
	assert.Equal(t, &ExplainResponse{Explanation: "1"}, out)

	_, err = tool.Invoke(ctx, tools.DecodeArguments(`recursion`))
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	_, err = tool.Invoke(ctx, tools.DecodeArguments(`{"topic":"fail"}`))
	assert.True(t, errors.Is(err, tools.ErrToolExecution))
	assert.Contains(t, err.Error(), "cannot explain")

	_, err = tools.NewTyped("bad", "", func(context.Context, *string) (*string, error) { return nil, nil })
	assert.EqualError(t, err, `tool "bad": schema: expected struct, got string`)
}
