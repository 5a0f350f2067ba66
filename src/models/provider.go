package models

import (
	"fmt"
	"os"
	"strings"
)

const defaultOllamaHost = "http://localhost:11434"

// NewProvider builds a ChatModel by provider name: openai|ollama|dummy.
// Ollama is reached through its OpenAI-compatible endpoint, so every
// provider shares one wire codec.
func NewProvider(provider, model string) (ChatModel, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai", "":
		return NewOpenAIModel(model)
	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = defaultOllamaHost
		}
		base := strings.TrimRight(host, "/") + "/v1"
		return NewOpenAICompatModel(base, "ollama", model), nil
	case "dummy":
		return NewDummyModel(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai, ollama, or dummy)", provider)
	}
}
