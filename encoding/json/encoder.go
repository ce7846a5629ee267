package json

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/bububa/ljson"
	"github.com/go-playground/validator/v10"
	"github.com/lvchiyang/aiteacher/pkg/llmutils"
	"github.com/lvchiyang/aiteacher/pkg/schema"
)

// Encoder encodes values as JSON.
type Encoder struct {
	reqType reflect.Type
}

// NewEncoder returns a JSON encoder for the type of req.
func NewEncoder(req any) *Encoder {
	return &Encoder{
		reqType: reflect.TypeOf(req),
	}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes lenient JSON, ignoring any text around it.
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.CleanJSON(llmutils.BytesTrimBackticks(bs))
	return ljson.Unmarshal(data, ret)
}

func (e *Encoder) Validate(req any) error {
	validate := validator.New()
	return validate.Struct(req)
}

// GetFormatInstructions returns the JSON schema of the type,
// or empty string if the type is not a struct.
func (e *Encoder) GetFormatInstructions() string {
	s, err := schema.New(e.reqType)
	if err != nil {
		return ""
	}
	var b bytes.Buffer
	b.WriteString("\nRespond with JSON in the following JSON schema:\n")
	b.WriteString("```json\n")
	b.WriteString(s.String())
	b.WriteString("\n```")
	b.WriteString("\nMake sure to return an instance of the JSON, not the schema itself.\n")
	return b.String()
}
