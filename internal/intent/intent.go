// Package intent decides what a user message is asking for.
package intent

import (
	"encoding/json"
	"slices"
	"strings"
)

// Intent is the closed set of request kinds the assistant handles.
type Intent string

const (
	Greeting     Intent = "greeting"
	Summarize    Intent = "summarize"
	RAG          Intent = "rag"
	FormatSlack  Intent = "format_slack"
	FormatEmail  Intent = "format_email"
	Conversation Intent = "conversation"
)

// All lists every intent.
func All() []Intent {
	return []Intent{Greeting, Summarize, RAG, FormatSlack, FormatEmail, Conversation}
}

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	return slices.Contains(All(), i)
}

// Length is the requested summary length.
type Length string

const (
	LengthDefault Length = "default"
	LengthLong    Length = "long"
)

// Classification is the outcome of classifying one message. Length is only
// meaningful for Summarize.
type Classification struct {
	Intent Intent
	Length Length
	// Fallback is set when the reply was not valid JSON and the intent came
	// from the keyword scan.
	Fallback bool
}

// fallbackKeywords are scanned in order when the reply is not JSON.
var fallbackKeywords = []struct {
	word   string
	intent Intent
}{
	{"greeting", Greeting},
	{"summarize", Summarize},
	{"rag", RAG},
	{"slack", FormatSlack},
	{"email", FormatEmail},
}

// Parse turns a model reply into a Classification. It never fails: code
// fences are stripped, a JSON object is decoded when possible, otherwise
// the reply is scanned for intent keywords, and anything unrecognised
// becomes RAG.
func Parse(reply string) Classification {
	var payload struct {
		Intent string `json:"intent"`
		Length string `json:"length"`
	}
	if err := json.Unmarshal([]byte(stripFences(reply)), &payload); err != nil {
		return keywordScan(reply)
	}

	c := Classification{Intent: Intent(strings.ToLower(strings.TrimSpace(payload.Intent))), Length: LengthDefault}
	if !c.Intent.Valid() {
		c.Intent = RAG
	}
	if Length(strings.ToLower(strings.TrimSpace(payload.Length))) == LengthLong {
		c.Length = LengthLong
	}
	return c
}

func keywordScan(reply string) Classification {
	lower := strings.ToLower(reply)
	for _, kw := range fallbackKeywords {
		if strings.Contains(lower, kw.word) {
			return Classification{Intent: kw.intent, Length: LengthDefault, Fallback: true}
		}
	}
	return Classification{Intent: RAG, Length: LengthDefault, Fallback: true}
}

// stripFences returns the body of the first ``` fenced block, without a
// leading "json" language tag. Text without fences is returned trimmed.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}
	body := strings.SplitN(s, "```", 3)[1]
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	return strings.TrimSpace(body)
}
