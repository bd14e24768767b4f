package types

import "errors"

// DocType identifies which documentation corpus a chunk or query belongs to.
type DocType string

const (
	// DocTypeCedar is the Cedar-OS frontend documentation corpus.
	DocTypeCedar DocType = "cedar"
	// DocTypeMastra is the Mastra backend documentation corpus.
	DocTypeMastra DocType = "mastra"
	// DocTypeAuto lets the retriever pick a corpus from the query vocabulary.
	DocTypeAuto DocType = ""
)

// DocumentChunk is an immutable unit of retrievable documentation content.
//
// Content is whitespace-normalized for scoring and display, while
// StartOffset/EndOffset point into the original, pre-normalization source
// text so line-accurate citations can be derived.
type DocumentChunk struct {
	// Source identifies the originating document (path or logical name).
	Source string

	// Heading is the nearest enclosing section title, empty if none.
	Heading string

	// Content is the normalized text body (whitespace-collapsed, trimmed).
	Content string

	// StartOffset and EndOffset are character offsets into the original
	// source text covered by this chunk.
	StartOffset int
	EndOffset   int

	// StartLine and EndLine are the derived 1-based line range.
	StartLine int
	EndLine   int

	// URL is an optional external reference carried from the source document.
	URL string
}

// Validate checks the chunk invariants.
func (c *DocumentChunk) Validate() error {
	if c.Content == "" {
		return ErrEmptyContent
	}
	if c.StartOffset < 0 || c.StartOffset >= c.EndOffset {
		return ErrInvalidSpan
	}
	if c.StartLine <= 0 || c.EndLine < c.StartLine {
		return errors.New("line range must be positive and non-decreasing")
	}
	return nil
}
