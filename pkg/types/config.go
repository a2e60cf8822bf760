package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "illuminator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIProvider selects the rewrite model backend.
type AIProvider string

const (
	ProviderClaude AIProvider = "claude"
	ProviderGemini AIProvider = "gemini"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the rewrite backend: claude or gemini.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ScanConfig holds settings for the motif scan stage.
type ScanConfig struct {
	// ContextRadius is the number of characters of surrounding text captured
	// on each side of a candidate sentence (default 150).
	ContextRadius int `json:"context_radius" yaml:"context_radius"`

	// WeaveDir is the base directory for weave artifacts
	// (contains candidates/, variants/, decisions/).
	WeaveDir string `json:"weave_dir" yaml:"weave_dir"`
}

// WeaveConfig holds settings for the rewrite generation stage.
type WeaveConfig struct {
	AIConfig `yaml:",inline"`

	// BatchSize is the number of candidates sent to the model per request (default 5).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Concurrency is the number of batches dispatched in parallel (default 2).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// WeaveDir is the base directory for weave artifacts.
	WeaveDir string `json:"weave_dir" yaml:"weave_dir"`
}

// ArchiveConfig holds settings for the world archive.
type ArchiveConfig struct {
	// ArchiveDir is the base directory for the archive (contains index/).
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Scan    ScanConfig    `json:"scan" yaml:"scan"`
	Weave   WeaveConfig   `json:"weave" yaml:"weave"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
}
