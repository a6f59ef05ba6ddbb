package intent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/llm"
)

const categories = `- "greeting": small talk such as hi, hello, hey, thanks or bye
- "summarize": the user wants a summary, overview, brief or the key points of the documents
- "rag": the user asks about something that should be answered from the uploaded documents (what is X, explain X, tell me about X, details on a topic)
- "format_slack": the user wants content written up as a Slack message
- "format_email": the user wants content written up as a professional email
- "conversation": general chat that does not concern the documents`

// Classifier asks a model which intent a message carries.
type Classifier struct {
	provider llm.Provider
	window   conversation.Window
	logger   *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithWindow sets the history window shown to the model.
func WithWindow(w conversation.Window) Option { return func(c *Classifier) { c.window = w } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClassifier returns a Classifier backed by provider.
func NewClassifier(provider llm.Provider, opts ...Option) *Classifier {
	c := &Classifier{
		provider: provider,
		window:   conversation.DefaultWindow,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the intent of query given the recent history. Malformed
// model replies are recovered by Parse; only a failed model call returns
// an error.
func (c *Classifier) Classify(ctx context.Context, query string, history []conversation.Turn) (Classification, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{llm.User(c.Prompt(query, history))},
		JSONMode: true,
	})
	if err != nil {
		return Classification{}, fmt.Errorf("classify intent: %w", err)
	}

	cls := Parse(resp.Content)
	if cls.Fallback {
		c.logger.Debug("classifier reply was not JSON, used keyword scan",
			zap.String("reply", resp.Content), zap.String("intent", string(cls.Intent)))
	}
	return cls, nil
}

// Prompt builds the classification prompt.
func (c *Classifier) Prompt(query string, history []conversation.Turn) string {
	var sb strings.Builder
	sb.WriteString("Decide which single category the user's message belongs to. Answer with the JSON object only.\n\n")
	sb.WriteString("Categories:\n")
	sb.WriteString(categories)
	sb.WriteString("\n")
	if len(history) > 0 {
		sb.WriteString("\nRecent conversation:\n")
		sb.WriteString(c.window.Render(history))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nUser message: %q\n\n", query)
	sb.WriteString(`Answer as JSON: {"intent": "<category>", "length": "default"}` + "\n")
	sb.WriteString(`For "summarize", use "long" as the length when a detailed or long summary is requested; otherwise use "default".`)
	return sb.String()
}
