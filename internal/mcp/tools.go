package mcp

import "github.com/mark3labs/mcp-go/mcp"

const defaultSearchLimit = 5

// askTool defines the ask MCP tool.
var askTool = mcp.NewTool("ask",
	mcp.WithDescription("Ask the document assistant a question. It answers from the ingested PDFs, summarizes them, formats content for Slack or email, or chats."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("The user's message"),
	),
	mcp.WithString("history",
		mcp.Description(`Prior conversation as a JSON array of {"role": "user"|"assistant", "content": "..."} objects, oldest first`),
	),
)

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Semantic search over the ingested document chunks. Returns matching passages with their source file and page."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of passages to return (default 5)"),
	),
)
