package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a streaming provider for the given provider type
// and model. Supported types: "openai", "ollama", "fake".
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	case "fake":
		return NewFakeProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
