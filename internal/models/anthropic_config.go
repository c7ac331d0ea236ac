package models

// AnthropicConfig holds settings for the Anthropic Messages API.
// An empty APIKey means the advisor runs without an LLM backend and
// analyze requests fail with service_unavailable.
type AnthropicConfig struct {
	APIKey      string  `json:"-" yaml:"api_key"`
	BaseURL     string  `json:"base_url,omitzero" yaml:"base_url"`
	Model       string  `json:"model,omitzero" yaml:"model"`
	MaxTokens   int64   `json:"max_tokens,omitzero" yaml:"max_tokens"`
	Temperature float64 `json:"temperature,omitzero" yaml:"temperature"`
}

const (
	defaultModel       = "claude-3-sonnet-20240229"
	defaultMaxTokens   = 2000
	defaultTemperature = 0.1
)

// WithDefaults returns a copy with unset generation parameters filled in.
func (c AnthropicConfig) WithDefaults() AnthropicConfig {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = defaultTemperature
	}
	return c
}
