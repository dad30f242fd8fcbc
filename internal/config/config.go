// Package config manages application configuration.
package config

// Config represents the application configuration.
type Config struct {
	DefaultProvider string              `yaml:"default_provider"`
	Providers       map[string]Provider `yaml:"providers"`
	Clean           CleanConfig         `yaml:"clean"`
	Repair          RepairConfig        `yaml:"repair"`
	Split           SplitConfig         `yaml:"split"`
}

// Provider represents an LLM provider configuration.
type Provider struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Endpoint  string `yaml:"endpoint,omitempty"` // for Ollama or custom endpoints
}

// CleanConfig contains options for the clean stage.
type CleanConfig struct {
	// TableHeaderFromFirstRow uses the first content row of a legacy table
	// as the Markdown header row.
	TableHeaderFromFirstRow bool `yaml:"table_header_from_first_row"`
	// ProtectedTags is the allow-list of inline HTML tags that may be
	// stripped from free text. Empty means the built-in list.
	ProtectedTags []string `yaml:"protected_tags"`
	// BackslashStrip removes converter-added escape backslashes from
	// free-text lines.
	BackslashStrip bool `yaml:"backslash_strip"`
}

// RepairConfig contains options for the repair stage.
type RepairConfig struct {
	// DefaultLanguage labels code blocks whose language cannot be
	// determined.
	DefaultLanguage string `yaml:"default_language"`
	// FormatCode re-indents code blocks by brace depth and normalizes
	// operator spacing.
	FormatCode bool `yaml:"format_code"`
}

// SplitConfig contains options for the split stage.
type SplitConfig struct {
	// HeadingLevel is the heading level the document is split at (1-6).
	HeadingLevel int `yaml:"heading_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: "anthropic",
		Providers: map[string]Provider{
			"openai": {
				APIKey:    "${OPENAI_API_KEY}",
				Model:     "gpt-4o-mini",
				MaxTokens: 64,
			},
			"anthropic": {
				APIKey:    "${ANTHROPIC_API_KEY}",
				Model:     "claude-3-5-haiku-20241022",
				MaxTokens: 64,
			},
			"gemini": {
				APIKey:    "${GOOGLE_API_KEY}",
				Model:     "gemini-1.5-flash",
				MaxTokens: 64,
			},
			"ollama": {
				Endpoint:  "http://localhost:11434",
				Model:     "llama3.2",
				MaxTokens: 64,
			},
		},
		Clean: CleanConfig{
			TableHeaderFromFirstRow: true,
			BackslashStrip:          true,
		},
		Repair: RepairConfig{
			DefaultLanguage: "c",
			FormatCode:      true,
		},
		Split: SplitConfig{
			HeadingLevel: 2,
		},
	}
}

// GetProvider returns the provider configuration by name.
func (c *Config) GetProvider(name string) (*Provider, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

// GetDefaultProvider returns the default provider configuration.
func (c *Config) GetDefaultProvider() (*Provider, bool) {
	return c.GetProvider(c.DefaultProvider)
}
