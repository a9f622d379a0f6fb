package config

// defaultModels maps each provider to the model used when none is
// configured. The fake provider ignores the model entirely.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
	ProviderFake:   "",
}

// DefaultExcludes are glob patterns excluded from scanning by default,
// on top of the scanner's built-in directory skip list.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.js",
	"*.min.css",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults: scan the
// current directory and explain with the offline fake provider.
func DefaultConfig() *Config {
	return &Config{
		Root:         ".",
		Provider:     ProviderFake,
		Model:        "",
		RateLimitRPM: 20,
		ScanInterval: "2s",
		MaxFileBytes: 10000,
		Exclude:      DefaultExcludes,
		Port:         8080,
		Width:        800,
		Height:       600,
	}
}

// DefaultModel returns the default model for a provider, or empty when
// the provider has none.
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}
