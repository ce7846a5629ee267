package toml

import (
	"bytes"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/lvchiyang/aiteacher/pkg/llmutils"
	"github.com/lvchiyang/aiteacher/pkg/schema"
)

// Encoder encodes values as TOML.
type Encoder struct {
	reqType reflect.Type
}

// NewEncoder returns a TOML encoder for the type of req.
func NewEncoder(req any) *Encoder {
	return &Encoder{
		reqType: reflect.TypeOf(req),
	}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.BytesTrimBackticks(bs)
	_, err := toml.Decode(string(data), ret)
	return err
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
	b.WriteString("\nRespond with TOML in the following TOML schema:\n")
	b.WriteString("```toml\n")
	b.Write(bs)
	b.WriteString("```")
	b.WriteString("\nMake sure to return an instance of the TOML, not the schema itself.\n")
	return b.String()
}
