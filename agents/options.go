package agents

import (
	"github.com/lvchiyang/aiteacher/encoding"
	"github.com/lvchiyang/aiteacher/memory"
	"github.com/lvchiyang/aiteacher/pkg/llms"
)

const (
	// DefaultMaxToolIterations is the number of tool calls resolved per turn.
	DefaultMaxToolIterations = 3
	// DefaultContextSize is the number of recent memory entries sent to the model.
	DefaultContextSize = 5
)

// Option is a function that can be used to modify the Agent Config.
type Option func(*Config)

// Config is the Agent configuration.
type Config struct {
	// MaxToolIterations bounds the tool calls resolved in a single turn.
	MaxToolIterations int
	// ContextSize is the number of recent memory entries included in the prompt.
	ContextSize int
	// ContextFormat is the encoding of the memory snapshot in the prompt.
	ContextFormat encoding.Mode
	// MemoryCapacity is the capacity of the Agent memory.
	MemoryCapacity int
	// Memory overrides the memory created by the Agent.
	Memory *memory.Memory
	// Generation holds the sampling parameters of the model calls.
	Generation llms.GenerationConfig
	// OutputFormat, when set, adds the answer format to the prompt
	// and decodes the answer in RunTyped.
	OutputFormat encoding.SchemaEncoder
	// CallbackHandler receives the Agent events.
	CallbackHandler Callback
}

// NewConfig returns the config with defaults and the options applied.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		MaxToolIterations: DefaultMaxToolIterations,
		ContextSize:       DefaultContextSize,
		ContextFormat:     encoding.ModeDefault,
		MemoryCapacity:    memory.DefaultCapacity,
		Generation:        llms.DefaultGenerationConfig(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithMaxToolIterations sets the bound of tool calls per turn.
// Values below 1 are ignored.
func WithMaxToolIterations(n int) Option {
	return func(o *Config) {
		if n > 0 {
			o.MaxToolIterations = n
		}
	}
}

// WithContextSize sets the number of recent memory entries in the prompt.
func WithContextSize(n int) Option {
	return func(o *Config) {
		if n >= 0 {
			o.ContextSize = n
		}
	}
}

// WithContextFormat sets the encoding of the memory snapshot.
func WithContextFormat(mode encoding.Mode) Option {
	return func(o *Config) {
		o.ContextFormat = mode
	}
}

// WithMemoryCapacity sets the capacity of the memory created by the Agent.
func WithMemoryCapacity(capacity int) Option {
	return func(o *Config) {
		o.MemoryCapacity = capacity
	}
}

// WithMemory sets the memory used by the Agent.
func WithMemory(m *memory.Memory) Option {
	return func(o *Config) {
		o.Memory = m
	}
}

// WithGeneration sets the sampling parameters,
// zero values are taken from the defaults.
func WithGeneration(gen llms.GenerationConfig) Option {
	return func(o *Config) {
		o.Generation = gen.Merge(llms.DefaultGenerationConfig())
	}
}

// WithOutputFormat sets the encoder of the structured answer.
func WithOutputFormat(enc encoding.SchemaEncoder) Option {
	return func(o *Config) {
		o.OutputFormat = enc
	}
}

// WithCallback sets the callback handler.
func WithCallback(callback Callback) Option {
	return func(o *Config) {
		o.CallbackHandler = callback
	}
}
