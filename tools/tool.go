package tools

import (
	"context"
	"encoding/json"
	"maps"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	sigsyaml "sigs.k8s.io/yaml"
)

var logger = xlog.NewPackageLogger("github.com/lvchiyang/aiteacher", "tools")

// KindFunction is the only tool kind understood by the model clients.
const KindFunction = "function"

// Executor runs a tool with the decoded arguments.
type Executor interface {
	Invoke(ctx context.Context, args Arguments) (any, error)
}

// Func is an adapter to allow the use of ordinary functions as Executor.
type Func func(ctx context.Context, args Arguments) (any, error)

// Invoke calls f(ctx, args).
func (f Func) Invoke(ctx context.Context, args Arguments) (any, error) {
	return f(ctx, args)
}

// Callback receives tool lifecycle events.
type Callback interface {
	OnToolStart(ctx context.Context, tool *Tool, agentName, input string)
	OnToolEnd(ctx context.Context, tool *Tool, agentName, input, output string)
	OnToolError(ctx context.Context, tool *Tool, agentName, input string, err error)
}

// Tool is a named capability the model may request.
// A Tool can be shared by several agents.
type Tool struct {
	name        string
	description string
	kind        string
	parameters  map[string]any
	executor    Executor

	lock       sync.Mutex
	lastInput  Arguments
	lastOutput any
}

// New returns an unbound tool.
func New(name, description string, parameters map[string]any) *Tool {
	if parameters == nil {
		parameters = map[string]any{}
	}
	return &Tool{
		name:        name,
		description: description,
		kind:        KindFunction,
		parameters:  parameters,
	}
}

// Name returns the tool name.
func (t *Tool) Name() string {
	return t.name
}

// Description returns the tool description.
func (t *Tool) Description() string {
	return t.description
}

// Kind returns the tool kind, normally "function".
func (t *Tool) Kind() string {
	return t.kind
}

// Parameters returns the JSON schema of the tool arguments.
func (t *Tool) Parameters() map[string]any {
	return t.parameters
}

// Describe returns the descriptor sent to the model.
func (t *Tool) Describe() llms.Tool {
	return llms.Tool{
		Type: t.kind,
		Function: &llms.FunctionDefinition{
			Name:        t.name,
			Description: t.description,
			Parameters:  maps.Clone(t.parameters),
		},
	}
}

// Parse returns an unbound tool from a descriptor.
// Missing fields are left empty.
func Parse(spec llms.Tool) *Tool {
	t := New("", "", nil)
	t.kind = values.StringsCoalesce(spec.Type, KindFunction)
	if fn := spec.Function; fn != nil {
		t.name = fn.Name
		t.description = fn.Description
		if fn.Parameters != nil {
			t.parameters = maps.Clone(fn.Parameters)
		}
	}
	return t
}

// ParseMap returns an unbound tool from a generic descriptor object.
func ParseMap(m map[string]any) *Tool {
	spec := llms.Tool{}
	spec.Type, _ = m["type"].(string)
	if fn, ok := m["function"].(map[string]any); ok {
		def := &llms.FunctionDefinition{}
		def.Name, _ = fn["name"].(string)
		def.Description, _ = fn["description"].(string)
		def.Parameters, _ = fn["parameters"].(map[string]any)
		spec.Function = def
	}
	return Parse(spec)
}

// ParseJSON returns an unbound tool from a JSON descriptor.
// Malformed input yields a tool with empty fields.
func ParseJSON(data []byte) *Tool {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		logger.KV(xlog.DEBUG, "reason", "parse_json", "err", err.Error())
	}
	return ParseMap(m)
}

// ParseYAML returns an unbound tool from a YAML descriptor.
func ParseYAML(data []byte) *Tool {
	js, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		logger.KV(xlog.DEBUG, "reason", "parse_yaml", "err", err.Error())
		return ParseMap(nil)
	}
	return ParseJSON(js)
}

// Bind attaches the executor, replacing any previous one.
// A nil executor, or a nil Func, unbinds the tool.
func (t *Tool) Bind(executor Executor) *Tool {
	if fn, ok := executor.(Func); ok && fn == nil {
		executor = nil
	}
	t.executor = executor
	return t
}

// BindFunc attaches the function as executor.
func (t *Tool) BindFunc(fn Func) *Tool {
	return t.Bind(fn)
}

// IsBound returns true if an executor is attached.
func (t *Tool) IsBound() bool {
	return t.executor != nil
}

// Invoke runs the executor with the arguments.
func (t *Tool) Invoke(ctx context.Context, args Arguments) (any, error) {
	if t.executor == nil {
		return nil, errors.Wrapf(ErrToolNotBound, "tool %q", t.name)
	}

	t.lock.Lock()
	t.lastInput = args
	t.lock.Unlock()

	out, err := t.executor.Invoke(ctx, args)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "tool %q", t.name), ErrToolExecution)
	}

	t.lock.Lock()
	t.lastOutput = out
	t.lock.Unlock()
	return out, nil
}

// LastInput returns the arguments of the latest invocation.
func (t *Tool) LastInput() Arguments {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.lastInput
}

// LastOutput returns the result of the latest successful invocation.
func (t *Tool) LastOutput() any {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.lastOutput
}
