// Package llmfactory creates models from a YAML configuration of providers
// (OpenAI, DashScope, Anthropic) and selects models per agent.
package llmfactory
