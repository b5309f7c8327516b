package factory

import (
	"ai-legalchat-be/pkg/llm"
	"ai-legalchat-be/pkg/llm/mistral"
	"ai-legalchat-be/pkg/llm/ollama"
	"fmt"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "mistral":
		if apiKey == "" {
			return nil, fmt.Errorf("mistral provider requires an API key")
		}
		return mistral.NewMistralProvider(apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
