package llms

// Default generation settings.
const (
	DefaultTemperature    = 0.7
	DefaultTopK           = 50
	DefaultTopP           = 1.0
	DefaultMaxTokens      = 1024
	DefaultMaxInputTokens = 1024
)

// GenerationConfig is the sampling configuration sent with every model call.
type GenerationConfig struct {
	Temperature    float64 `json:"temperature" yaml:"temperature"`
	TopK           int     `json:"top_k" yaml:"top_k"`
	TopP           float64 `json:"top_p" yaml:"top_p"`
	MaxTokens      int     `json:"max_tokens" yaml:"max_tokens"`
	MaxInputTokens int     `json:"max_input_tokens" yaml:"max_input_tokens"`
	// ResponseFormat is "text" or "json_object".
	ResponseFormat string `json:"response_format" yaml:"response_format"`
	EnableThinking bool   `json:"enable_thinking" yaml:"enable_thinking"`
}

// DefaultGenerationConfig returns the default generation settings.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:    DefaultTemperature,
		TopK:           DefaultTopK,
		TopP:           DefaultTopP,
		MaxTokens:      DefaultMaxTokens,
		MaxInputTokens: DefaultMaxInputTokens,
		ResponseFormat: ResponseFormatText.Type,
	}
}

// Merge returns a copy of c with zero values replaced by the values of d.
// EnableThinking is taken from c.
func (c GenerationConfig) Merge(d GenerationConfig) GenerationConfig {
	if c.Temperature == 0 {
		c.Temperature = d.Temperature
	}
	if c.TopK == 0 {
		c.TopK = d.TopK
	}
	if c.TopP == 0 {
		c.TopP = d.TopP
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.MaxInputTokens == 0 {
		c.MaxInputTokens = d.MaxInputTokens
	}
	if c.ResponseFormat == "" {
		c.ResponseFormat = d.ResponseFormat
	}
	return c
}

// Options converts the configuration to call options.
func (c GenerationConfig) Options() []CallOption {
	opts := []CallOption{
		WithTemperature(c.Temperature),
		WithTopP(c.TopP),
		WithThinking(c.EnableThinking),
	}
	if c.TopK > 0 {
		opts = append(opts, WithTopK(c.TopK))
	}
	if c.MaxTokens > 0 {
		opts = append(opts, WithMaxTokens(c.MaxTokens))
	}
	if c.MaxInputTokens > 0 {
		opts = append(opts, WithMaxInputTokens(c.MaxInputTokens))
	}
	if c.ResponseFormat != "" {
		opts = append(opts, WithResponseFormat(&ResponseFormat{Type: c.ResponseFormat}))
	}
	return opts
}
