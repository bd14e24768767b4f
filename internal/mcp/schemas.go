package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchDocsTool returns the tool definition for search_docs
func searchDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_docs",
		Description: "Search Cedar-OS and Mastra documentation with keyword or semantic retrieval",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or keywords)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return",
					"default":     5,
					"minimum":     1,
					"maximum":     200,
				},
				"use_semantic": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, use vector similarity search when configured; falls back to keyword on failure",
					"default":     true,
				},
				"doc_type": map[string]interface{}{
					"type":        "string",
					"description": "Documentation corpus to search; omit to auto-detect from query",
					"enum":        []string{"cedar", "mastra"},
				},
			},
			Required: []string{"query"},
		},
	}
}

// describeIndexTool returns the tool definition for describe_index
func describeIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "describe_index",
		Description: "Report indexed documentation sources and chunk counts",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"doc_type": map[string]interface{}{
					"type":        "string",
					"description": "Corpus to describe; omit for all corpora",
					"enum":        []string{"cedar", "mastra"},
				},
			},
		},
	}
}
