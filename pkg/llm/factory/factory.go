package factory

import (
	"fmt"

	"policy-qa-be/pkg/llm"
	"policy-qa-be/pkg/llm/deepseek"
	"policy-qa-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "deepseek":
		if apiKey == "" {
			return nil, fmt.Errorf("deepseek provider requires an API key")
		}
		return deepseek.NewDeepSeekProvider(baseURL, apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
