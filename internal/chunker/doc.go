// Package chunker parses raw documentation sources into ordered chunks.
//
// Two source shapes are supported, selected by a format discriminant:
//
//   - Heading-delimited text: split on "#" heading lines, one chunk per
//     heading block. Oversized blocks are re-split at blank-line boundaries.
//     "Source: https://..." marker lines (llms-full export format) attach a
//     reference URL to the blocks that follow.
//   - JSON records: an array of {heading, content, url} objects, each mapped
//     directly to one chunk.
//
// Chunk content is whitespace-normalized; character spans always refer to
// the pre-normalization citation text carried on the Document, so derived
// line numbers stay accurate.
//
//	c := chunker.New(chunker.Config{})
//	doc, err := c.Chunk("guide.md", chunker.FormatHeadingText, raw)
//	for _, chunk := range doc.Chunks {
//	    fmt.Printf("%s: lines %d-%d\n", chunk.Heading, chunk.StartLine, chunk.EndLine)
//	}
package chunker
