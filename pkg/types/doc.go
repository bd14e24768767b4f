// Package types provides shared type definitions for the Cedar docs MCP server.
//
// This package defines the domain types used across the engine: document
// chunks, search results, citations, and corpus identifiers.
//
// # Core Types
//
// DocumentChunk is a contiguous, citable unit of documentation text with a
// known source and character span:
//
//	chunk := types.DocumentChunk{
//	    Source:      "cedar_llms_full.txt",
//	    Heading:     "Voice Setup",
//	    Content:     "Use the VoiceButton component for microphone access.",
//	    StartOffset: 1024,
//	    EndOffset:   1080,
//	}
//
// SearchResult is a read-only view of a matched chunk, carrying either a
// keyword MatchCount or a semantic Similarity score, plus a Citations block
// with character spans and 1-based line numbers.
//
// # Validation
//
// Chunks implement a Validate method enforcing the core invariants
// (non-empty content, start < end, positive non-decreasing line range):
//
//	if err := chunk.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
