package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "matpredict/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds settings for one generative-model backend.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the model identifier (e.g. "gpt-4o", "gemini-1.5-flash-latest").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// MaterialsConfig holds settings for the materials database stage.
type MaterialsConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the authentication key for the materials database API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// StableOnly restricts lookups to thermodynamically stable entries.
	StableOnly bool `json:"stable_only" yaml:"stable_only"`
}

// ServeConfig holds settings for the web surface.
type ServeConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ViewerCacheSize is the number of rendered structure viewers kept in
	// memory (default 256). Viewers are re-renderable, so eviction is safe.
	ViewerCacheSize int `json:"viewer_cache_size" yaml:"viewer_cache_size"`
}

// PipelineConfig groups all stage configurations for one discovery run.
type PipelineConfig struct {
	OpenAI    ProviderConfig  `json:"openai" yaml:"openai"`
	Gemini    ProviderConfig  `json:"gemini" yaml:"gemini"`
	Materials MaterialsConfig `json:"materials" yaml:"materials"`

	// TopN is the number of ranked candidates to keep (default 3).
	TopN int `json:"top_n" yaml:"top_n"`

	// Supercell is the (nx, ny, nz) expansion applied to structures before
	// rendering and file export (default 2,2,2).
	Supercell [3]int `json:"supercell" yaml:"supercell"`
}
