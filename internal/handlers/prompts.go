package handlers

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/doc-assistant/internal/intent"
)

const (
	summarizerSystem = "You write accurate summaries of document excerpts."
	formatterSystem  = "You rewrite text into the format the reader asks for."
)

func ragPrompt(material, query string) string {
	return fmt.Sprintf(`You are a knowledgeable assistant. Answer the question using the reference material below.

Reference material:
%s

Question: %s

Guidelines:
- Use only facts found in the reference material
- Answer directly and professionally
- Never refer to "the context", "the documents" or "the reference material" in the answer
- When the material offers several explanations, pick the one most relevant to the question
- Stay faithful to the wording and meaning of the source

Answer:`, material, query)
}

func summaryPrompt(content string, length intent.Length) string {
	instruction := "Write a concise summary of roughly 100 words."
	if length == intent.LengthLong {
		instruction = "Write a thorough, detailed summary that covers every important point."
	}
	return fmt.Sprintf("Summarize the text below.\n\n\"%s\"\n\n%s\n\nSummary:", content, instruction)
}

func formatPrompt(text string, style Style) string {
	var instruction string
	switch style {
	case StyleEmail:
		instruction = "Rewrite it as a professional email addressed to an executive. Begin with a subject line."
	default:
		instruction = "Rewrite it as a short Slack message made of bullet points."
	}
	return fmt.Sprintf("Reformat the text below.\n\n\"%s\"\n\n%s\n\nFormatted text:", text, instruction)
}

func conversationPrompt(history, query string) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly assistant in a document question-answering app.")
	if history != "" {
		sb.WriteString("\nConversation so far:\n")
		sb.WriteString(history)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nUser: %s\n\nReply naturally and briefly.", query)
	return sb.String()
}
