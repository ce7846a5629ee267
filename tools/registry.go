package tools

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/pkg/llms"
)

// Registry is an ordered set of tools with unique names.
// The zero value is ready to use.
type Registry struct {
	tools []*Tool
	index map[string]int
}

// NewRegistry returns a registry with the tools added in order.
func NewRegistry(list ...*Tool) (*Registry, error) {
	r := &Registry{index: map[string]int{}}
	for _, t := range list {
		if err := r.Add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers the tool.
// A tool with the same name must be replaced explicitly with Replace.
func (r *Registry) Add(t *Tool) error {
	if t == nil || t.Name() == "" {
		return errors.WithStack(ErrEmptyName)
	}
	if _, ok := r.index[t.Name()]; ok {
		return errors.Wrapf(ErrDuplicateTool, "tool %q", t.Name())
	}
	if r.index == nil {
		r.index = map[string]int{}
	}
	r.index[t.Name()] = len(r.tools)
	r.tools = append(r.tools, t)
	return nil
}

// Replace registers the tool, overriding a tool with the same name in place.
func (r *Registry) Replace(t *Tool) error {
	if t == nil || t.Name() == "" {
		return errors.WithStack(ErrEmptyName)
	}
	if idx, ok := r.index[t.Name()]; ok {
		r.tools[idx] = t
		return nil
	}
	return r.Add(t)
}

// Get returns the tool by exact name.
func (r *Registry) Get(name string) (*Tool, error) {
	if idx, ok := r.index[name]; ok {
		return r.tools[idx], nil
	}
	return nil, errors.Wrapf(ErrToolNotFound, "tool %q", name)
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name()
	}
	return names
}

// List returns the tools in registration order.
func (r *Registry) List() []*Tool {
	return append([]*Tool(nil), r.tools...)
}

// Specs returns the descriptors of the registered tools.
func (r *Registry) Specs() []llms.Tool {
	if len(r.tools) == 0 {
		return nil
	}
	specs := make([]llms.Tool, len(r.tools))
	for i, t := range r.tools {
		specs[i] = t.Describe()
	}
	return specs
}

// Descriptions returns a list of "- name: description" lines.
func (r *Registry) Descriptions() string {
	var sb strings.Builder
	for _, t := range r.tools {
		sb.WriteString("- ")
		sb.WriteString(t.Name())
		sb.WriteString(": ")
		sb.WriteString(t.Description())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}
