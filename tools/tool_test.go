package tools_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weatherParams = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"city": map[string]any{"type": "string"},
	},
	"required": []any{"city"},
}

func Test_Describe(t *testing.T) {
	t.Parallel()

	tool := tools.New("get_weather", "Get the weather", weatherParams)
	spec := tool.Describe()
	assert.Equal(t, "function", spec.Type)
	require.NotNil(t, spec.Function)
	assert.Equal(t, "get_weather", spec.Function.Name)
	assert.Equal(t, "Get the weather", spec.Function.Description)
	assert.Equal(t, weatherParams, spec.Function.Parameters)
	assert.False(t, tool.IsBound())

	empty := tools.New("", "", nil).Describe()
	assert.Equal(t, map[string]any{}, empty.Function.Parameters)
}

func Test_Parse_RoundTrip(t *testing.T) {
	t.Parallel()

	orig := tools.New("get_weather", "Get the weather", weatherParams)
	parsed := tools.Parse(orig.Describe())

	assert.Equal(t, orig.Name(), parsed.Name())
	assert.Equal(t, orig.Description(), parsed.Description())
	assert.Equal(t, orig.Kind(), parsed.Kind())
	assert.Empty(t, cmp.Diff(orig.Parameters(), parsed.Parameters()))
	assert.False(t, parsed.IsBound())
	assert.Empty(t, cmp.Diff(orig.Describe(), parsed.Describe()))
}

func Test_Parse_Defaults(t *testing.T) {
	t.Parallel()

	tool := tools.Parse(llms.Tool{})
	assert.Equal(t, "", tool.Name())
	assert.Equal(t, "", tool.Description())
	assert.Equal(t, "function", tool.Kind())
	assert.Equal(t, map[string]any{}, tool.Parameters())

	tool = tools.ParseMap(map[string]any{
		"type":     "function",
		"function": map[string]any{"name": "now", "description": 42},
	})
	assert.Equal(t, "now", tool.Name())
	assert.Equal(t, "", tool.Description())
	assert.Equal(t, map[string]any{}, tool.Parameters())

	tool = tools.ParseJSON([]byte(`not json`))
	assert.Equal(t, "", tool.Name())
	assert.Equal(t, "function", tool.Kind())

	tool = tools.ParseYAML([]byte("\t:bad"))
	assert.Equal(t, "", tool.Name())
}

func Test_ParseJSON_YAML(t *testing.T) {
	t.Parallel()

	js := `{
		"type": "function",
		"function": {
			"name": "get_weather",
			"description": "Get the weather",
			"parameters": {"type": "object", "properties": {"city": {"type": "string"}}, "required": ["city"]}
		}
	}`
	fromJSON := tools.ParseJSON([]byte(js))
	assert.Equal(t, "get_weather", fromJSON.Name())
	assert.Empty(t, cmp.Diff(weatherParams, fromJSON.Parameters()))

	yml := `
type: function
function:
  name: get_weather
  description: Get the weather
  parameters:
    type: object
    properties:
      city:
        type: string
    required:
      - city
`
	fromYAML := tools.ParseYAML([]byte(yml))
	assert.Empty(t, cmp.Diff(fromJSON.Describe(), fromYAML.Describe()))
}

func Test_Invoke(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := tools.New("echo", "echo", nil)
	_, err := tool.Invoke(ctx, tools.NewArguments(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrToolNotBound))
	assert.Equal(t, `tool "echo": tool has no executor bound`, err.Error())

	tool.BindFunc(func(_ context.Context, args tools.Arguments) (any, error) {
		return args.Values["text"], nil
	})
	assert.True(t, tool.IsBound())

	args := tools.DecodeArguments(`{"text":"hi"}`)
	out, err := tool.Invoke(ctx, args)
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, args, tool.LastInput())
	assert.Equal(t, "hi", tool.LastOutput())

	boom := errors.New("boom")
	tool.BindFunc(func(context.Context, tools.Arguments) (any, error) {
		return nil, boom
	})
	_, err = tool.Invoke(ctx, tools.NewArguments(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrToolExecution))
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, `tool "echo": boom`, err.Error())
	// output of the failed call is not recorded
	assert.Equal(t, "hi", tool.LastOutput())

	tool.BindFunc(nil)
	assert.False(t, tool.IsBound())

	tool.Bind(tools.Func(nil))
	assert.False(t, tool.IsBound())
	_, err = tool.Invoke(ctx, tools.NewArguments(nil))
	assert.True(t, errors.Is(err, tools.ErrToolNotBound))

	tool.Bind(nil)
	assert.False(t, tool.IsBound())
}
