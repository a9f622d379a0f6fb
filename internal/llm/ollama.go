package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaProvider implements Provider using direct HTTP calls to the
// Ollama chat API with streaming enabled.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func (p *OllamaProvider) Stream(ctx context.Context, req StreamRequest) (<-chan Chunk, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model:    model,
		Messages: []ollamaMessage{{Role: "user", Content: req.Prompt}},
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		return nil, fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer httpResp.Body.Close()

		// Ollama streams newline-delimited JSON objects.
		dec := json.NewDecoder(httpResp.Body)
		for {
			var resp ollamaChatResponse
			if err := dec.Decode(&resp); err != nil {
				if err == io.EOF || ctx.Err() != nil {
					return
				}
				out <- Chunk{Err: fmt.Errorf("failed to decode ollama stream: %w", err)}
				return
			}

			if resp.Message.Content != "" {
				select {
				case out <- Chunk{Content: resp.Message.Content}:
				case <-ctx.Done():
					return
				}
			}
			if resp.Done {
				return
			}
		}
	}()
	return out, nil
}
