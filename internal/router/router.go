// Package router is the assistant's single entry point: it classifies a
// message, dispatches it to a handler and renders source attribution.
package router

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/handlers"
	"github.com/ziadkadry99/doc-assistant/internal/intent"
	"github.com/ziadkadry99/doc-assistant/internal/logging"
)

// TypeError tags responses produced by the failure boundary.
const TypeError = "error"

// Response is what callers receive for every query.
type Response struct {
	Output string `json:"output"`
	Type   string `json:"type"`
}

// Classifier assigns an intent to a message.
type Classifier interface {
	Classify(ctx context.Context, query string, history []conversation.Turn) (intent.Classification, error)
}

// Retrieval holds the fan-out used by each retrieving handler.
type Retrieval struct {
	RagK       int
	SummarizeK int
	FormatK    int
}

// DefaultRetrieval is 5 chunks for answers and formatting, 10 for summaries.
var DefaultRetrieval = Retrieval{RagK: 5, SummarizeK: 10, FormatK: 5}

// Router routes messages to handlers. It holds no per-conversation state
// and is safe for concurrent use when its dependencies are.
type Router struct {
	classifier Classifier
	handlers   map[intent.Intent]handlers.Handler
	fallback   handlers.Handler
	logger     *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.logger = logging.OrNop(l) }
}

// WithHandler overrides the handler for one intent.
func WithHandler(i intent.Intent, h handlers.Handler) Option {
	return func(r *Router) { r.handlers[i] = h }
}

// New builds a Router with the standard handler for every intent.
func New(classifier Classifier, deps handlers.Deps, k Retrieval, opts ...Option) *Router {
	rag := handlers.RAG{Deps: deps, K: k.RagK}
	chat := handlers.Conversational{Deps: deps}
	r := &Router{
		classifier: classifier,
		handlers: map[intent.Intent]handlers.Handler{
			intent.Greeting:     chat,
			intent.Conversation: chat,
			intent.RAG:          rag,
			intent.Summarize:    handlers.Summarizer{Deps: deps, K: k.SummarizeK},
			intent.FormatSlack:  handlers.Formatter{Deps: deps, K: k.FormatK, Style: handlers.StyleSlack},
			intent.FormatEmail:  handlers.Formatter{Deps: deps, K: k.FormatK, Style: handlers.StyleEmail},
		},
		fallback: rag,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Process answers query. It never fails: any error or panic below it is
// turned into a response of type "error".
func (r *Router) Process(ctx context.Context, query string, history []conversation.Turn) (resp Response) {
	log := r.logger.With(zap.String("request_id", uuid.NewString()))
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("query panicked", zap.Any("panic", rec), zap.Stack("stack"))
			resp = errorResponse(fmt.Errorf("%v", rec))
		}
	}()

	resp, err := r.process(ctx, query, history, log)
	if err != nil {
		log.Error("query failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return errorResponse(err)
	}
	log.Info("query answered", zap.String("type", resp.Type), zap.Duration("duration", time.Since(start)))
	return resp
}

func (r *Router) process(ctx context.Context, query string, history []conversation.Turn, log *zap.Logger) (Response, error) {
	cls, err := r.classifier.Classify(ctx, query, history)
	if err != nil {
		return Response{}, err
	}
	log.Debug("classified query",
		zap.String("intent", string(cls.Intent)),
		zap.String("length", string(cls.Length)),
		zap.Bool("fallback", cls.Fallback))

	out, err := r.handlerFor(cls.Intent).Handle(ctx, handlers.Request{
		Query:   query,
		Length:  cls.Length,
		History: history,
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Output: Annotate(out.Output, out.Sources), Type: out.Type}, nil
}

func (r *Router) handlerFor(i intent.Intent) handlers.Handler {
	if h, ok := r.handlers[i]; ok {
		return h
	}
	return r.fallback
}

func errorResponse(err error) Response {
	return Response{Output: "An error occurred: " + err.Error(), Type: TypeError}
}
