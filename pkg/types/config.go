package types

import "time"

const (
	// DefaultBaseURL is the NCBI E-utilities root.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultMaxResults is the number of identifiers requested when the
	// caller does not choose one.
	DefaultMaxResults = 5

	// DefaultTimeout bounds each HTTP call.
	DefaultTimeout = 10 * time.Second
)

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-search/0.1"). Left unset when empty.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the PubMed search client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root; esearch.fcgi and esummary.fcgi are
	// resolved against it.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the default number of identifiers requested (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Tool and Email identify the caller to NCBI. Both are optional and only
	// sent when set.
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
}

// LibraryConfig holds settings for the local article library.
type LibraryConfig struct {
	// Dir is the directory holding library.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config groups all configuration sections.
type Config struct {
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
}

// DefaultSearchConfig returns the search settings used when nothing is configured.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		HTTPConfig: HTTPConfig{Timeout: DefaultTimeout},
		BaseURL:    DefaultBaseURL,
		MaxResults: DefaultMaxResults,
	}
}

// WithDefaults fills zero-valued fields of c from DefaultSearchConfig.
func (c SearchConfig) WithDefaults() SearchConfig {
	d := DefaultSearchConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	return c
}
