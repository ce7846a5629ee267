package dummy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Unmarshaler is implemented by types that decode themselves from plain text.
type Unmarshaler interface {
	Unmarshal(bs []byte) error
}

// Encoder passes plain text through, other values are encoded as JSON.
type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	switch s := v.(type) {
	case fmt.Stringer:
		return []byte(s.String()), nil
	case string:
		return []byte(s), nil
	case []byte:
		return s, nil
	case *string:
		return []byte(*s), nil
	}
	return json.Marshal(v)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	switch s := ret.(type) {
	case Unmarshaler:
		return s.Unmarshal(bs)
	case *string:
		*s = strings.TrimSpace(string(bs))
		return nil
	case *[]byte:
		*s = bs
		return nil
	}
	return json.Unmarshal(bs, ret)
}

func (e *Encoder) GetFormatInstructions() string {
	return ""
}
