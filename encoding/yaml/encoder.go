package yaml

import (
	"bytes"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/lvchiyang/aiteacher/pkg/llmutils"
	"github.com/lvchiyang/aiteacher/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Encoder encodes values as YAML.
type Encoder struct {
	reqType reflect.Type
	indent  int
}

// NewEncoder returns a YAML encoder for the type of req.
func NewEncoder(req any) *Encoder {
	return &Encoder{
		reqType: reflect.TypeOf(req),
		indent:  2,
	}
}

// WithIndent sets the number of spaces used for nesting.
func (e *Encoder) WithIndent(spaces int) *Encoder {
	e.indent = spaces
	return e
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(e.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.BytesTrimBackticks(bs)
	return yaml.Unmarshal(data, ret)
}

func (e *Encoder) Validate(req any) error {
	validate := validator.New()
	return validate.Struct(req)
}

// GetFormatInstructions returns an example instance of the type
// filled with fake data.
func (e *Encoder) GetFormatInstructions() string {
	instance, ok := schema.FakeInstance(e.reqType)
	if !ok {
		return ""
	}
	bs, err := e.Marshal(instance)
	if err != nil {
		return ""
	}
	var b bytes.Buffer
	b.WriteString("\nRespond with YAML in the following YAML schema without comments:\n")
	b.WriteString("```yaml\n")
	b.Write(bs)
	b.WriteString("```")
	b.WriteString("\nMake sure to return an instance of the YAML, not the schema itself.\n")
	return b.String()
}
