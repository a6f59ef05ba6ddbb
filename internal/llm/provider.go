package llm

import "context"

// Provider is the text-generation capability. Implementations block until
// the remote model answers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Generate runs a single completion over msgs and returns the reply text.
func Generate(ctx context.Context, p Provider, temperature float64, msgs ...Message) (string, error) {
	resp, err := p.Complete(ctx, CompletionRequest{
		Messages:    msgs,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
