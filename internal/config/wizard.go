package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .constellation.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to constellation! Let's configure your project.")
	fmt.Println()

	// 1. Root directory.
	rootPrompt := promptui.Prompt{
		Label:   "Directory to scan",
		Default: ".",
	}
	root, err := rootPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("root selection: %w", err)
	}

	// 2. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select explanation provider",
		Items: []string{
			"fake   — offline canned explanations",
			"openai — OpenAI API (needs OPENAI_API_KEY)",
			"ollama — local Ollama server",
		},
	}
	providerIdx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	providers := []ProviderType{ProviderFake, ProviderOpenAI, ProviderOllama}
	provider := providers[providerIdx]

	// 3. Model, skipped for the fake provider.
	model := DefaultModel(provider)
	if provider != ProviderFake {
		modelPrompt := promptui.Prompt{
			Label:   "Model",
			Default: model,
		}
		model, err = modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model selection: %w", err)
		}
	}

	// 4. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	exclude := DefaultExcludes
	if excludeStr != "" {
		exclude = append(exclude, splitAndTrim(excludeStr)...)
	}

	cfg := DefaultConfig()
	cfg.Root = root
	cfg.Provider = provider
	cfg.Model = model
	cfg.Exclude = exclude

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running constellation serve.\n", envVar)
	}

	// Save to .constellation.yml.
	configPath := ".constellation.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			token := trimSpace(s[start:i])
			if token != "" {
				result = append(result, token)
			}
			start = i + 1
		}
	}
	return result
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}
