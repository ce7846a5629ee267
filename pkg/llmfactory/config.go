package llmfactory

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
	"github.com/lvchiyang/aiteacher/pkg/llms"
)

type Config struct {
	// Providers specifies the list of providers to use
	Providers []*ProviderConfig `json:"providers" yaml:"providers" validate:"dive"`
	// DefaultProvider specifies the default provider to use
	DefaultProvider string `json:"default_provider" yaml:"default_provider"`
	// AgentModels specifies the mapping of agents to models.
	// key is the agent name, value is the list of preferred models.
	// Use `default: <model_name>` as the default model for agents.
	AgentModels map[string][]string `json:"agent_models" yaml:"agent_models"`
	// Generation specifies the sampling parameters,
	// zero values are taken from the defaults.
	Generation llms.GenerationConfig `json:"generation" yaml:"generation"`
}

// ProviderConfig for a model provider
type ProviderConfig struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	// Type specifies the type of API to use:
	// OPENAI|OPEN_AI|DASHSCOPE|QWEN|ANTHROPIC|BEDROCK|GOOGLEAI|GEMINI
	Type string `json:"type" yaml:"type" validate:"required"`
	// Token is the API key, for BEDROCK it is `access_key_id:secret_access_key`
	Token        string `json:"token,omitempty" yaml:"token,omitempty"`
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
	// Region is the AWS region for BEDROCK
	Region          string   `json:"region,omitempty" yaml:"region,omitempty"`
	DefaultModel    string   `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty" yaml:"available_models,omitempty"`
}

// ProviderType returns the normalized provider type.
func (c *ProviderConfig) ProviderType() (llms.ProviderType, error) {
	switch strings.ToUpper(c.Type) {
	case "OPENAI", "OPEN_AI":
		return llms.ProviderOpenAI, nil
	case "DASHSCOPE", "QWEN":
		return llms.ProviderDashScope, nil
	case "ANTHROPIC":
		return llms.ProviderAnthropic, nil
	case "BEDROCK":
		return llms.ProviderBedrock, nil
	case "GOOGLEAI", "GEMINI":
		return llms.ProviderGoogleAI, nil
	}
	return "", errors.Errorf("unsupported provider type: %s", c.Type)
}

// FindModel returns the first of models available with the provider,
// or the default model.
func (c *ProviderConfig) FindModel(models ...string) string {
	for _, model := range models {
		if slices.Contains(c.AvailableModels, model) {
			return model
		}
	}
	return c.DefaultModel
}

// Validate returns an error if the config is invalid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.WithMessage(err, "invalid config")
	}
	names := map[string]bool{}
	for _, p := range c.Providers {
		if names[p.Name] {
			return errors.Errorf("invalid config: duplicate provider %q", p.Name)
		}
		names[p.Name] = true
		if _, err := p.ProviderType(); err != nil {
			return errors.WithMessagef(err, "invalid config: provider %q", p.Name)
		}
	}
	if c.DefaultProvider != "" && !names[c.DefaultProvider] {
		return errors.Errorf("invalid config: default provider %q not found", c.DefaultProvider)
	}
	return nil
}

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
