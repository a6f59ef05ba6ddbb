// Package handlers produces answers for each classified intent.
//
// Handlers never annotate their output with sources; they return the
// sources separately and leave rendering to the router.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/intent"
	"github.com/ziadkadry99/doc-assistant/internal/llm"
	"github.com/ziadkadry99/doc-assistant/internal/retriever"
)

// Response types, used by callers to tag answers.
const (
	TypeRAG            = "rag"
	TypeSummarizer     = "summarizer"
	TypeFormatter      = "formatter"
	TypeConversational = "conversational"
)

// NoDocumentsMessage is returned by the summarizer when retrieval finds nothing.
const NoDocumentsMessage = "No documents found to summarize. Please upload PDFs first."

// Request is the input to a handler.
type Request struct {
	Query   string
	Length  intent.Length
	History []conversation.Turn
}

// Response is a handler's answer. Sources may be empty.
type Response struct {
	Output  string
	Type    string
	Sources []string
}

// Handler answers one kind of request.
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

// Retriever fetches supporting content for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) (retriever.Result, error)
}

// Deps are the capabilities shared by all handlers.
type Deps struct {
	Retriever   Retriever
	Provider    llm.Provider
	Temperature float64
	Window      conversation.Window
}

func (d Deps) generate(ctx context.Context, msgs ...llm.Message) (string, error) {
	out, err := llm.Generate(ctx, d.Provider, d.Temperature, msgs...)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out, nil
}

func (d Deps) retrieve(ctx context.Context, query string, k int) (retriever.Result, error) {
	res, err := d.Retriever.Retrieve(ctx, query, k)
	if err != nil {
		return retriever.Result{}, fmt.Errorf("retrieve: %w", err)
	}
	return res, nil
}

// RAG answers a question from the most relevant chunks. With nothing
// retrieved it still asks the model, with an empty context.
type RAG struct {
	Deps
	K int
}

func (h RAG) Handle(ctx context.Context, req Request) (Response, error) {
	res, err := h.retrieve(ctx, req.Query, h.K)
	if err != nil {
		return Response{}, err
	}
	out, err := h.generate(ctx, llm.User(ragPrompt(res.Content, req.Query)))
	if err != nil {
		return Response{}, err
	}
	return Response{Output: out, Type: TypeRAG, Sources: res.Sources}, nil
}

// Summarizer summarises a broad retrieval for the query.
type Summarizer struct {
	Deps
	K int
}

func (h Summarizer) Handle(ctx context.Context, req Request) (Response, error) {
	res, err := h.retrieve(ctx, req.Query, h.K)
	if err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(res.Content) == "" {
		return Response{Output: NoDocumentsMessage, Type: TypeSummarizer}, nil
	}
	out, err := h.generate(ctx,
		llm.System(summarizerSystem),
		llm.User(summaryPrompt(res.Content, req.Length)))
	if err != nil {
		return Response{}, err
	}
	return Response{Output: out, Type: TypeSummarizer, Sources: res.Sources}, nil
}

// Style is a target format for the Formatter.
type Style string

const (
	StyleSlack Style = "slack"
	StyleEmail Style = "email"
)

// Formatter rewrites retrieved content, or the query itself when nothing
// is retrieved, in the given Style.
type Formatter struct {
	Deps
	K     int
	Style Style
}

func (h Formatter) Handle(ctx context.Context, req Request) (Response, error) {
	res, err := h.retrieve(ctx, req.Query, h.K)
	if err != nil {
		return Response{}, err
	}
	text := res.Content
	if strings.TrimSpace(text) == "" {
		text = req.Query
	}
	out, err := h.generate(ctx,
		llm.System(formatterSystem),
		llm.User(formatPrompt(text, h.Style)))
	if err != nil {
		return Response{}, err
	}
	return Response{Output: out, Type: TypeFormatter, Sources: res.Sources}, nil
}

// Conversational replies directly, without retrieval.
type Conversational struct {
	Deps
}

func (h Conversational) Handle(ctx context.Context, req Request) (Response, error) {
	out, err := h.generate(ctx, llm.User(conversationPrompt(h.Window.Render(req.History), req.Query)))
	if err != nil {
		return Response{}, err
	}
	return Response{Output: out, Type: TypeConversational}, nil
}
