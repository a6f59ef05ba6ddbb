package embeddings

import (
	"fmt"
	"os"
)

// NewEmbedder creates an embedder for the given provider and model, reading
// credentials from the same environment variables as the llm package.
func NewEmbedder(provider, model string) (Embedder, error) {
	switch provider {
	case "google":
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is not set")
		}
		return NewGoogleEmbedder(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIEmbedder(apiKey, model, os.Getenv("OPENAI_BASE_URL")), nil

	case "ollama":
		return NewOllamaEmbedder(model, os.Getenv("OLLAMA_HOST")), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
