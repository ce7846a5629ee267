package tools

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	jsonenc "github.com/lvchiyang/aiteacher/encoding/json"
	"github.com/lvchiyang/aiteacher/pkg/llmutils"
)

// Arguments is the decoded argument payload of a tool call.
// When Decoded is true, Values holds the JSON object supplied by the model,
// otherwise Raw holds the original string that could not be decoded.
type Arguments struct {
	Values  map[string]any
	Raw     string
	Decoded bool
}

// NewArguments returns decoded arguments for the values.
func NewArguments(values map[string]any) Arguments {
	if values == nil {
		values = map[string]any{}
	}
	return Arguments{Values: values, Decoded: true}
}

// DecodeArguments decodes the argument string of a tool call.
// It never fails: empty input decodes to an empty object,
// input that is not a JSON object is returned raw.
func DecodeArguments(raw string) Arguments {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NewArguments(nil)
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(trimmed), &values); err == nil {
		return NewArguments(values)
	}
	// models sometimes wrap the object in text or code fences,
	// or send it with trailing commas and missing quotes
	values = nil
	if err := jsonenc.NewEncoder(values).Unmarshal([]byte(trimmed), &values); err == nil && values != nil {
		return NewArguments(values)
	}
	return Arguments{Raw: raw}
}

// String returns the JSON object for decoded arguments, or the raw string.
func (a Arguments) String() string {
	if !a.Decoded {
		return a.Raw
	}
	return llmutils.ToJSON(a.Values)
}

// MarshalJSON encodes decoded arguments as an object and raw arguments as a string.
func (a Arguments) MarshalJSON() ([]byte, error) {
	if !a.Decoded {
		return json.Marshal(a.Raw)
	}
	if a.Values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.Values)
}

// Get returns the value of the named argument.
func (a Arguments) Get(name string) (any, bool) {
	if !a.Decoded {
		return nil, false
	}
	v, ok := a.Values[name]
	return v, ok
}

// Bind decodes the arguments into v, which must be a pointer.
// Scalar values are converted to the field type, e.g. 42 into "42".
func (a Arguments) Bind(v any) error {
	if err := jsonenc.NewEncoder(v).Unmarshal([]byte(a.String()), v); err != nil {
		return errors.Mark(errors.WithMessage(err, ErrFailedUnmarshalInput.Error()), ErrFailedUnmarshalInput)
	}
	return nil
}
