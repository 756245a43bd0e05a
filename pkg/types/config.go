package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "article-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GatherConfig holds settings for the context-gathering stage.
type GatherConfig struct {
	HTTPConfig `yaml:",inline"`

	// SerperAPIKey authenticates against the web search backend. When
	// empty, web search is skipped and the run continues with an empty
	// hit list.
	SerperAPIKey string `json:"serper_api_key,omitempty" yaml:"serper_api_key,omitempty"`

	// ResultsPerQuery is the result count requested per search query (default 3).
	ResultsPerQuery int `json:"results_per_query" yaml:"results_per_query"`

	// InterQueryDelay is the pacing delay between consecutive search
	// calls (default 1s). This is throttling, not a retry mechanism.
	InterQueryDelay time.Duration `json:"inter_query_delay" yaml:"inter_query_delay"`
}

// CompletionConfig holds settings for calls to the completion backend.
type CompletionConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the completion backend. Required;
	// keys issued by the backend start with "gsk_".
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the completion model identifier.
	Model ModelID `json:"model" yaml:"model"`
}

// ExportConfig holds settings for the artifact export layer.
type ExportConfig struct {
	// OutputDir is the directory generated artifacts are written to
	// (default "output/articles").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ArchiveConfig holds settings for the optional run archive.
type ArchiveConfig struct {
	// Dir is the base directory for the archive database (default "archive").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for a generation run.
type PipelineConfig struct {
	Gather     GatherConfig     `json:"gather" yaml:"gather"`
	Completion CompletionConfig `json:"completion" yaml:"completion"`
	Export     ExportConfig     `json:"export" yaml:"export"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive"`
}
