package llm

import (
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OllamaProvider implements Provider against a local Ollama server through
// its OpenAI-compatible endpoint.
type OllamaProvider struct {
	OpenAIProvider
	endpoint string
}

// NewOllamaProvider creates an Ollama provider.
func NewOllamaProvider(endpoint, model string) *OllamaProvider {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}

	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimSuffix(endpoint, "/") + "/v1"

	return &OllamaProvider{
		OpenAIProvider: OpenAIProvider{
			client: openai.NewClientWithConfig(cfg),
			apiKey: "ollama",
			model:  model,
		},
		endpoint: endpoint,
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

func (p *OllamaProvider) Validate() error {
	if p.endpoint == "" {
		return fmt.Errorf("ollama: endpoint is not configured")
	}
	return nil
}
