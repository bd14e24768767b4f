package types

// Mode indicates which retrieval strategy produced a result set.
type Mode string

const (
	// ModeKeyword is deterministic lexical scoring based on token overlap.
	ModeKeyword Mode = "keyword"
	// ModeSemantic is similarity scoring in embedding space.
	ModeSemantic Mode = "semantic"
)

// Span is a character-offset range within a source document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Citations carries line-accurate references for a search result.
type Citations struct {
	// ApproxSpan is the character range the chunk was extracted from.
	ApproxSpan Span `json:"approxSpan"`

	// StartLine and EndLine are the 1-based line range of the chunk.
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`

	// TokenLines maps each matched token to the 1-based line numbers at
	// which it occurs within the chunk, capped per token.
	TokenLines map[string][]int `json:"tokenLines,omitempty"`
}

// SearchResult is a read-only view of a matched chunk. Results never share
// mutable state with the index that produced them.
type SearchResult struct {
	Source  string `json:"source"`
	Heading string `json:"heading,omitempty"`

	// Content may be truncated to a fixed maximum length for payload size.
	Content string `json:"content"`

	URL string `json:"url,omitempty"`

	// MatchCount is the keyword-mode score. Zero in semantic mode.
	MatchCount int `json:"matchCount,omitempty"`

	// Similarity is the semantic-mode cosine similarity. Zero in keyword mode.
	Similarity float64 `json:"similarity,omitempty"`

	// MatchedTokens maps query tokens to occurrence counts (keyword mode).
	MatchedTokens map[string]int `json:"matchedTokens,omitempty"`

	Citations *Citations `json:"citations,omitempty"`
}

// IndexSummary describes a built index for the status/describe surface.
type IndexSummary struct {
	DocsPath   string   `json:"docsPath,omitempty"`
	ChunkCount int      `json:"chunkCount"`
	Sources    []string `json:"sources"`
}
