package tools_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Registry(t *testing.T) {
	t.Parallel()

	search := tools.New("search", "Search the web", nil)
	calc := tools.New("calculate", "Evaluate an expression", nil)

	r, err := tools.NewRegistry(search, calc)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"search", "calculate"}, r.Names())
	assert.Equal(t, "- search: Search the web\n- calculate: Evaluate an expression\n", r.Descriptions())

	specs := r.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "calculate", specs[1].Function.Name)

	got, err := r.Get("search")
	require.NoError(t, err)
	assert.Same(t, search, got)

	_, err = r.Get("Search")
	assert.True(t, errors.Is(err, tools.ErrToolNotFound))
	assert.EqualError(t, err, `tool "Search": tool not found`)

	err = r.Add(tools.New("search", "another", nil))
	assert.True(t, errors.Is(err, tools.ErrDuplicateTool))

	err = r.Add(tools.New("", "nameless", nil))
	assert.True(t, errors.Is(err, tools.ErrEmptyName))
	assert.True(t, errors.Is(r.Add(nil), tools.ErrEmptyName))

	replacement := tools.New("search", "Search v2", nil)
	require.NoError(t, r.Replace(replacement))
	assert.Equal(t, []string{"search", "calculate"}, r.Names())
	got, _ = r.Get("search")
	assert.Same(t, replacement, got)

	require.NoError(t, r.Replace(tools.New("now", "Current time", nil)))
	assert.Equal(t, []string{"search", "calculate", "now"}, r.Names())

	list := r.List()
	list[0] = nil
	assert.NotNil(t, r.List()[0])

	_, err = tools.NewRegistry(search, tools.New("search", "dup", nil))
	assert.True(t, errors.Is(err, tools.ErrDuplicateTool))
}

func Test_Registry_Zero(t *testing.T) {
	t.Parallel()

	var r tools.Registry
	assert.Nil(t, r.Specs())
	assert.Empty(t, r.Names())
	require.NoError(t, r.Add(tools.New("now", "", nil)))
	assert.Equal(t, 1, r.Len())
}
