package chunker

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

// Format discriminates how a raw documentation source is parsed.
type Format string

const (
	// FormatHeadingText splits markdown-like text on heading markers.
	FormatHeadingText Format = "heading-text"
	// FormatJSONRecords maps a JSON array of pre-chunked records to chunks.
	FormatJSONRecords Format = "json-records"
)

// DefaultMaxChunkSize is the maximum raw-character size of a single chunk
// before a heading block is re-split at blank-line boundaries.
const DefaultMaxChunkSize = 4000

// Config tunes chunking behavior.
type Config struct {
	MaxChunkSize int
}

// Chunker parses raw documentation text into ordered, immutable chunks.
type Chunker struct {
	maxChunkSize int
}

// Document pairs the chunks of one source with the citation text their
// character spans refer to. For heading-delimited sources Text is the raw
// input; for JSON sources it is a plain-text rendering of the records, so
// spans and line numbers stay internally consistent either way.
type Document struct {
	Source string
	Text   string

	// LineOffsets holds the starting character offset of each 1-based line
	// of Text, enabling offset -> line conversions via binary search.
	LineOffsets []int

	Chunks []types.DocumentChunk
}

// LineFor converts a character offset into a 1-based line number.
func (d *Document) LineFor(offset int) int {
	n := sort.Search(len(d.LineOffsets), func(i int) bool {
		return d.LineOffsets[i] > offset
	})
	if n < 1 {
		return 1
	}
	return n
}

// New creates a Chunker with the given configuration.
func New(cfg Config) *Chunker {
	size := cfg.MaxChunkSize
	if size <= 0 {
		size = DefaultMaxChunkSize
	}
	return &Chunker{maxChunkSize: size}
}

// Chunk parses one source according to its format.
func (c *Chunker) Chunk(source string, format Format, data []byte) (*Document, error) {
	switch format {
	case FormatJSONRecords:
		return c.chunkJSON(source, data)
	case FormatHeadingText, "":
		return c.chunkText(source, string(data)), nil
	default:
		return nil, fmt.Errorf("unknown source format %q", format)
	}
}

// chunkText splits heading-delimited text into one chunk per heading block.
// Lines starting with "#" begin a new block; "Source: http(s)://..." marker
// lines carry a reference URL for the blocks that follow them (the llms-full
// export format); "[EN] Source:" section markers end the current block.
func (c *Chunker) chunkText(source, text string) *Document {
	doc := &Document{
		Source:      source,
		Text:        text,
		LineOffsets: computeLineOffsets(text),
	}

	var (
		heading    string
		url        string
		blockStart int
		offset     int
	)

	flush := func(end int) {
		doc.Chunks = append(doc.Chunks, c.blockChunks(doc, heading, url, blockStart, end)...)
	}

	for _, rawLine := range strings.SplitAfter(text, "\n") {
		line := strings.TrimSuffix(rawLine, "\n")
		lineStart := offset
		offset += len(rawLine)

		switch {
		case strings.HasPrefix(line, "#"):
			flush(lineStart)
			heading = strings.TrimSpace(strings.TrimLeft(line, "#"))
			blockStart = offset
		case strings.HasPrefix(line, "Source: https://"), strings.HasPrefix(line, "Source: http://"):
			flush(lineStart)
			url = strings.TrimSpace(strings.TrimPrefix(line, "Source:"))
			blockStart = offset
		case strings.HasPrefix(line, "[EN] Source:"):
			flush(lineStart)
			blockStart = offset
		}
	}
	flush(len(text))

	return doc
}

// chunkJSON maps a JSON array of {heading, content, url} records directly to
// chunks. Spans point into a generated plain-text rendering of the records.
func (c *Chunker) chunkJSON(source string, data []byte) (*Document, error) {
	var records []struct {
		Heading string `json:"heading"`
		Content string `json:"content"`
		URL     string `json:"url"`
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse json records: %w", err)
	}

	doc := &Document{Source: source}
	var b strings.Builder
	for _, r := range records {
		content := strings.TrimSpace(r.Content)
		if content == "" {
			continue
		}
		if r.Heading != "" {
			b.WriteString("# " + r.Heading + "\n")
		}
		start := b.Len()
		b.WriteString(content)
		end := b.Len()
		b.WriteString("\n\n")

		doc.Chunks = append(doc.Chunks, types.DocumentChunk{
			Source:      source,
			Heading:     r.Heading,
			Content:     normalize(content),
			StartOffset: start,
			EndOffset:   end,
			URL:         r.URL,
		})
	}

	doc.Text = b.String()
	doc.LineOffsets = computeLineOffsets(doc.Text)
	for i := range doc.Chunks {
		doc.Chunks[i].StartLine = doc.LineFor(doc.Chunks[i].StartOffset)
		doc.Chunks[i].EndLine = doc.LineFor(doc.Chunks[i].EndOffset - 1)
	}
	return doc, nil
}

// blockChunks turns one heading block span into chunks, re-splitting at
// blank-line boundaries when the raw span exceeds the size limit.
func (c *Chunker) blockChunks(doc *Document, heading, url string, start, end int) []types.DocumentChunk {
	start, end = trimSpan(doc.Text, start, end)
	if start >= end {
		return nil
	}

	if end-start <= c.maxChunkSize {
		if chunk, ok := c.makeChunk(doc, heading, url, start, end); ok {
			return []types.DocumentChunk{chunk}
		}
		return nil
	}

	var out []types.DocumentChunk
	paras := paragraphSpans(doc.Text, start, end)
	pieceStart, pieceEnd := -1, -1
	flushPiece := func() {
		if pieceStart < 0 {
			return
		}
		if chunk, ok := c.makeChunk(doc, heading, url, pieceStart, pieceEnd); ok {
			out = append(out, chunk)
		}
		pieceStart, pieceEnd = -1, -1
	}
	for _, p := range paras {
		if pieceStart >= 0 && p.end-pieceStart > c.maxChunkSize {
			flushPiece()
		}
		if pieceStart < 0 {
			pieceStart = p.start
		}
		pieceEnd = p.end
	}
	flushPiece()
	return out
}

func (c *Chunker) makeChunk(doc *Document, heading, url string, start, end int) (types.DocumentChunk, bool) {
	content := normalize(doc.Text[start:end])
	if content == "" {
		return types.DocumentChunk{}, false
	}
	return types.DocumentChunk{
		Source:      doc.Source,
		Heading:     heading,
		Content:     content,
		StartOffset: start,
		EndOffset:   end,
		StartLine:   doc.LineFor(start),
		EndLine:     doc.LineFor(end - 1),
		URL:         url,
	}, true
}

type span struct {
	start, end int
}

// paragraphSpans splits [start, end) at blank-line boundaries, trimming each
// paragraph to its non-whitespace extent.
func paragraphSpans(text string, start, end int) []span {
	var out []span
	cur := start
	for cur < end {
		next := strings.Index(text[cur:end], "\n\n")
		paraEnd := end
		if next >= 0 {
			paraEnd = cur + next
		}
		ps, pe := trimSpan(text, cur, paraEnd)
		if ps < pe {
			out = append(out, span{start: ps, end: pe})
		}
		if next < 0 {
			break
		}
		cur = paraEnd + 2
	}
	return out
}

// trimSpan shrinks a span to exclude leading and trailing whitespace so that
// offsets point at actual content.
func trimSpan(text string, start, end int) (int, int) {
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return start, end
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// normalize collapses runs of whitespace to single spaces and trims the ends.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// computeLineOffsets returns the starting offset of each 1-based line.
func computeLineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
