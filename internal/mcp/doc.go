// Package mcp implements the Model Context Protocol (MCP) server for the
// Cedar documentation retriever.
//
// The server exposes two tools to AI coding assistants:
//   - search_docs: Search Cedar-OS and Mastra documentation
//   - describe_index: Report indexed sources and chunk counts
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Standard output is reserved for protocol traffic, so all logging goes
// to standard error.
//
// # Tool: search_docs
//
// Search documentation by keyword scoring or vector similarity:
//
//	Request:
//	{
//	  "name": "search_docs",
//	  "arguments": {
//	    "query": "how do I set up voice",
//	    "limit": 5,
//	    "use_semantic": true
//	  }
//	}
//
//	Response:
//	{
//	  "query": "how do I set up voice",
//	  "docType": "cedar",
//	  "searchMode": "keyword",
//	  "resultCount": 1,
//	  "results": [
//	    {
//	      "source": "builtin/cedar.md",
//	      "heading": "Voice Setup",
//	      "content": "...",
//	      "matchCount": 4,
//	      "matchedTokens": {"voice": 4},
//	      "citations": {
//	        "approxSpan": {"start": 2101, "end": 2412},
//	        "startLine": 61,
//	        "endLine": 66,
//	        "tokenLines": {"voice": [61, 63]}
//	      }
//	    }
//	  ]
//	}
//
// The corpus is auto-detected from the query vocabulary unless doc_type
// pins it. When the semantic path is unavailable or fails, results come
// from keyword scoring and searchMode reports "keyword".
//
// # Tool: describe_index
//
// Report what is indexed:
//
//	Request:
//	{"name": "describe_index", "arguments": {}}
//
//	Response:
//	{
//	  "semanticSearchAvailable": false,
//	  "cedar":  {"docsPath": "builtin/cedar.md", "chunkCount": 12, "sources": ["cedar.md"]},
//	  "mastra": {"docsPath": "builtin/mastra.md", "chunkCount": 9, "sources": ["mastra.md"]}
//	}
package mcp
