package config

import "time"

// ProviderType identifies an LLM provider for explanation streams.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderFake   ProviderType = "fake"
)

// Config is the top-level configuration, corresponding to .constellation.yml.
type Config struct {
	// Root is the directory tree to scan and diagram.
	Root string `yaml:"root" koanf:"root"`

	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`

	// RateLimitRPM caps explanation stream starts per minute. Zero
	// disables rate limiting.
	RateLimitRPM int `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`

	// ScanInterval is the rescan cadence as a duration string ("2s").
	ScanInterval string `yaml:"scan_interval" koanf:"scan_interval"`

	// MaxFileBytes caps how much of each file is captured into the
	// diagram.
	MaxFileBytes int `yaml:"max_file_bytes" koanf:"max_file_bytes"`

	Exclude []string `yaml:"exclude" koanf:"exclude"`

	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	// Width and Height are the initial viewport size in pixels.
	Width  int `yaml:"width" koanf:"width"`
	Height int `yaml:"height" koanf:"height"`
}

// ScanIntervalDuration parses the configured scan interval.
func (c *Config) ScanIntervalDuration() (time.Duration, error) {
	return time.ParseDuration(c.ScanInterval)
}
