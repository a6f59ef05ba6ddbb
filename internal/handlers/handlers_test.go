package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/intent"
	"github.com/ziadkadry99/doc-assistant/internal/llm"
	"github.com/ziadkadry99/doc-assistant/internal/llm/llmtest"
	"github.com/ziadkadry99/doc-assistant/internal/retriever"
)

type fakeRetriever struct {
	result retriever.Result
	err    error
	ks     []int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, k int) (retriever.Result, error) {
	f.ks = append(f.ks, k)
	return f.result, f.err
}

var policy = retriever.Result{
	Content: "Vacation days accrue monthly.",
	Sources: []string{"policy.pdf"},
	Chunks:  1,
}

func deps(r *fakeRetriever, p *llmtest.Provider) Deps {
	return Deps{Retriever: r, Provider: p, Window: conversation.DefaultWindow}
}

func TestRAG(t *testing.T) {
	r := &fakeRetriever{result: policy}
	p := llmtest.New("Vacation accrues monthly.")

	resp, err := RAG{Deps: deps(r, p), K: 5}.Handle(context.Background(), Request{Query: "What is the vacation policy?"})
	require.NoError(t, err)
	assert.Equal(t, "Vacation accrues monthly.", resp.Output)
	assert.Equal(t, TypeRAG, resp.Type)
	assert.Equal(t, []string{"policy.pdf"}, resp.Sources)
	assert.Equal(t, []int{5}, r.ks)

	prompt := p.Prompt(0)
	assert.Contains(t, prompt, "Vacation days accrue monthly.")
	assert.Contains(t, prompt, "Question: What is the vacation policy?")
}

func TestRAG_EmptyCorpusStillAnswers(t *testing.T) {
	p := llmtest.New("I don't know.")
	resp, err := RAG{Deps: deps(&fakeRetriever{}, p), K: 5}.Handle(context.Background(), Request{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.CallCount())
	assert.Equal(t, "I don't know.", resp.Output)
	assert.Empty(t, resp.Sources)
}

func TestSummarizer_EmptyCorpus(t *testing.T) {
	r := &fakeRetriever{result: retriever.Result{Content: "   "}}
	p := llmtest.New()

	resp, err := Summarizer{Deps: deps(r, p), K: 10}.Handle(context.Background(), Request{Query: "Summarize the documents"})
	require.NoError(t, err)
	assert.Equal(t, NoDocumentsMessage, resp.Output)
	assert.Equal(t, TypeSummarizer, resp.Type)
	assert.Nil(t, resp.Sources)
	assert.Equal(t, 0, p.CallCount())
	assert.Equal(t, []int{10}, r.ks, "retrieval happens once")
}

func TestSummarizer_Lengths(t *testing.T) {
	for _, tc := range []struct {
		length intent.Length
		want   string
	}{
		{intent.LengthDefault, "roughly 100 words"},
		{intent.LengthLong, "thorough, detailed summary"},
		{"", "roughly 100 words"},
	} {
		p := llmtest.New("summary")
		resp, err := Summarizer{Deps: deps(&fakeRetriever{result: policy}, p), K: 10}.
			Handle(context.Background(), Request{Query: "summarize", Length: tc.length})
		require.NoError(t, err)
		assert.Equal(t, "summary", resp.Output)
		assert.Equal(t, []string{"policy.pdf"}, resp.Sources)
		assert.Contains(t, p.Prompt(0), tc.want)
		assert.Equal(t, llm.RoleSystem, p.Calls[0].Messages[0].Role)
	}
}

func TestFormatter(t *testing.T) {
	for _, tc := range []struct {
		style Style
		want  string
	}{
		{StyleSlack, "Slack message made of bullet points"},
		{StyleEmail, "Begin with a subject line"},
	} {
		p := llmtest.New("formatted")
		r := &fakeRetriever{result: policy}
		resp, err := Formatter{Deps: deps(r, p), K: 5, Style: tc.style}.
			Handle(context.Background(), Request{Query: "send the vacation policy"})
		require.NoError(t, err)
		assert.Equal(t, TypeFormatter, resp.Type)
		assert.Equal(t, []string{"policy.pdf"}, resp.Sources)
		assert.Equal(t, []int{5}, r.ks)
		assert.Contains(t, p.Prompt(0), tc.want)
		assert.Contains(t, p.Prompt(0), `"Vacation days accrue monthly."`)
	}
}

func TestFormatter_FallsBackToQuery(t *testing.T) {
	p := llmtest.New("formatted")
	resp, err := Formatter{Deps: deps(&fakeRetriever{}, p), K: 5, Style: StyleSlack}.
		Handle(context.Background(), Request{Query: "Team lunch moved to Friday"})
	require.NoError(t, err)
	assert.Equal(t, "formatted", resp.Output)
	assert.Empty(t, resp.Sources)
	assert.Contains(t, p.Prompt(0), `"Team lunch moved to Friday"`)
}

func TestConversational(t *testing.T) {
	r := &fakeRetriever{result: policy}
	p := llmtest.New("Hello! How can I help?")
	history := []conversation.Turn{
		{Role: conversation.RoleUser, Content: "earlier " + strings.Repeat("z", 400)},
		{Role: conversation.RoleAssistant, Content: "sure"},
	}

	resp, err := Conversational{Deps: deps(r, p)}.Handle(context.Background(), Request{Query: "hi", History: history})
	require.NoError(t, err)
	assert.Equal(t, TypeConversational, resp.Type)
	assert.Empty(t, resp.Sources)
	assert.Empty(t, r.ks, "no retrieval")

	prompt := p.Prompt(0)
	assert.Contains(t, prompt, "Conversation so far:")
	assert.Contains(t, prompt, "assistant: sure")
	assert.NotContains(t, prompt, strings.Repeat("z", 200))
	assert.Contains(t, prompt, "User: hi")
}

func TestConversational_NoHistory(t *testing.T) {
	p := llmtest.New("hey")
	_, err := Conversational{Deps: deps(&fakeRetriever{}, p)}.Handle(context.Background(), Request{Query: "hello"})
	require.NoError(t, err)
	assert.NotContains(t, p.Prompt(0), "Conversation so far")
}

func TestHandlersPropagateErrors(t *testing.T) {
	retrieveErr := &fakeRetriever{err: errors.New("store closed")}
	failing := llmtest.New()
	failing.Err = errors.New("quota exceeded")

	for name, h := range map[string]Handler{
		"rag retrieve":       RAG{Deps: deps(retrieveErr, llmtest.New()), K: 5},
		"rag generate":       RAG{Deps: deps(&fakeRetriever{result: policy}, failing), K: 5},
		"summarize retrieve": Summarizer{Deps: deps(retrieveErr, llmtest.New()), K: 10},
		"summarize generate": Summarizer{Deps: deps(&fakeRetriever{result: policy}, failing), K: 10},
		"format retrieve":    Formatter{Deps: deps(retrieveErr, llmtest.New()), K: 5, Style: StyleEmail},
		"format generate":    Formatter{Deps: deps(&fakeRetriever{}, failing), K: 5, Style: StyleEmail},
		"conversation":       Conversational{Deps: deps(&fakeRetriever{}, failing)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), Request{Query: "q"})
			assert.Error(t, err)
		})
	}
}
