package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docassist! Let's configure your document assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"google", "openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.Model = GetPreset(cfg.Provider).Model

	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: cfg.Model,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	cfg.EmbeddingProvider = embeddingProviderFor(cfg.Provider)
	cfg.EmbeddingModel = GetPreset(cfg.EmbeddingProvider).EmbeddingModel

	docsPrompt := promptui.Prompt{
		Label:   "Directory holding your PDF documents",
		Default: cfg.DocumentsDir,
	}
	if cfg.DocumentsDir, err = docsPrompt.Run(); err != nil {
		return nil, fmt.Errorf("documents dir: %w", err)
	}

	storePrompt := promptui.Prompt{
		Label:   "Directory for the vector store",
		Default: cfg.StoreDir,
	}
	if cfg.StoreDir, err = storePrompt.Run(); err != nil {
		return nil, fmt.Errorf("store dir: %w", err)
	}

	includePrompt := promptui.Prompt{
		Label:   "Document patterns (comma-separated globs)",
		Default: strings.Join(cfg.Include, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	if include := splitAndTrim(includeStr); len(include) > 0 {
		cfg.Include = include
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, p := range []ProviderType{cfg.Provider, cfg.EmbeddingProvider} {
		if envVar := APIKeyEnvVar(p); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: set %s in your environment or .env before running docassist.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// embeddingProviderFor returns the default embedding provider for a chat
// provider. Anthropic has no embeddings API so it borrows OpenAI's.
func embeddingProviderFor(p ProviderType) ProviderType {
	if p == ProviderAnthropic {
		return ProviderOpenAI
	}
	return p
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
