package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sir-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestConfig holds settings for the PDF ingestion stage.
type IngestConfig struct {
	// PDFDir is the directory scanned for *.pdf files.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// CorpusPath is the append-only JSONL corpus file.
	CorpusPath string `json:"corpus_path" yaml:"corpus_path"`
}

// ParseConfig holds settings for the batch parsing stage.
type ParseConfig struct {
	// CorpusPath is the JSONL corpus file produced by ingestion.
	CorpusPath string `json:"corpus_path" yaml:"corpus_path"`

	// ParsedDir receives one YAML file per parsed report.
	ParsedDir string `json:"parsed_dir" yaml:"parsed_dir"`

	// Workers bounds parse concurrency (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// Loose enables the structure-agnostic rule scan: section bounding is
	// skipped and both citation sub-formats run over the whole document.
	// Higher recall, at the risk of picking up rule-catalog appendices.
	Loose bool `json:"loose" yaml:"loose"`
}

// StoreConfig holds settings for the report index.
type StoreConfig struct {
	// ReportsDir is the base directory for reports (contains parsed/, index/).
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ExportConfig holds settings for the CSV and website exporters.
type ExportConfig struct {
	// ParsedDir is the directory of parsed-report YAML files.
	ParsedDir string `json:"parsed_dir" yaml:"parsed_dir"`

	// OutDir receives the generated files.
	OutDir string `json:"out_dir" yaml:"out_dir"`
}

// SummaryConfig holds settings for the API summarization stage.
type SummaryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the chat-completions endpoint
	// (default "https://openrouter.ai/api/v1/chat/completions").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the model identifier passed to the API.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited calls
	// (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// CorpusPath is the JSONL corpus file to scan for SIRs.
	CorpusPath string `json:"corpus_path" yaml:"corpus_path"`

	// SummariesPath is the append-only summaries CSV.
	SummariesPath string `json:"summaries_path" yaml:"summaries_path"`

	// Limit caps how many missing summaries one run requests (0 = no cap).
	Limit int `json:"limit" yaml:"limit"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest  IngestConfig  `json:"ingest" yaml:"ingest"`
	Parse   ParseConfig   `json:"parse" yaml:"parse"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	Summary SummaryConfig `json:"summary" yaml:"summary"`
}
