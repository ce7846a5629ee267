package encoding

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	plainenc "github.com/lvchiyang/aiteacher/encoding/dummy"
	jsonenc "github.com/lvchiyang/aiteacher/encoding/json"
	tomlenc "github.com/lvchiyang/aiteacher/encoding/toml"
	yamlenc "github.com/lvchiyang/aiteacher/encoding/yaml"
)

// SchemaEncoder encodes values exchanged with the model in a text format.
type SchemaEncoder interface {
	Marshal(v any) ([]byte, error)
	Unmarshal([]byte, any) error
	// GetFormatInstructions returns the prompt fragment describing the expected format
	GetFormatInstructions() string
}

// Validator validates a decoded value.
type Validator interface {
	Validate(any) error
}

// Mode is the text format of an encoder.
type Mode = string

const (
	ModeJSON      Mode = "json"
	ModeYAML      Mode = "yaml"
	ModeTOML      Mode = "toml"
	ModePlainText Mode = "plain_text"
)

// ModeDefault is the mode used when none is configured.
var ModeDefault = ModeJSON

// ErrUnsupportedMode is returned for an unknown mode.
var ErrUnsupportedMode = errors.New("unsupported encoding mode")

// ParseMode returns the mode by name, case-insensitive.
// Empty name returns ModeDefault.
func ParseMode(name string) (Mode, error) {
	switch m := strings.ToLower(strings.TrimSpace(name)); m {
	case "":
		return ModeDefault, nil
	case ModeJSON, ModeYAML, ModeTOML, ModePlainText:
		return m, nil
	case "yml":
		return ModeYAML, nil
	case "text":
		return ModePlainText, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedMode, "mode %q", name)
	}
}

// NewEncoder returns the encoder for the mode and the type of req.
func NewEncoder(mode Mode, req any) (SchemaEncoder, error) {
	switch mode {
	case ModeJSON:
		return jsonenc.NewEncoder(req), nil
	case ModeYAML:
		return yamlenc.NewEncoder(req), nil
	case ModeTOML:
		return tomlenc.NewEncoder(req), nil
	case ModePlainText:
		return plainenc.NewEncoder(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedMode, "mode %q", mode)
	}
}

// Marshal encodes v in the mode.
func Marshal(mode Mode, v any) ([]byte, error) {
	enc, err := NewEncoder(mode, v)
	if err != nil {
		return nil, err
	}
	bs, err := enc.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", mode)
	}
	return bs, nil
}

// Decode decodes the model output into T.
// Structs are validated when the encoder supports validation.
func Decode[T any](enc SchemaEncoder, text string) (*T, error) {
	var target T
	if err := enc.Unmarshal([]byte(text), &target); err != nil {
		return nil, errors.Wrap(err, "failed to decode")
	}
	if v, ok := enc.(Validator); ok && reflect.TypeFor[T]().Kind() == reflect.Struct {
		if err := v.Validate(&target); err != nil {
			return nil, errors.Wrap(err, "failed to validate")
		}
	}
	return &target, nil
}

var (
	_ SchemaEncoder = (*plainenc.Encoder)(nil)
	_ SchemaEncoder = (*jsonenc.Encoder)(nil)
	_ SchemaEncoder = (*tomlenc.Encoder)(nil)
	_ SchemaEncoder = (*yamlenc.Encoder)(nil)
)
