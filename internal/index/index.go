package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KNQuoc/cedar-docs-mcp/internal/chunker"
	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

// ErrNoSources is returned when every configured source failed to index.
var ErrNoSources = errors.New("no sources could be indexed")

// Source is a single documentation input for an index build. Data takes
// precedence; when nil, Path is read at build time.
type Source struct {
	Name   string
	Format chunker.Format
	Path   string
	Data   []byte
}

// Config controls an index build.
type Config struct {
	// DocsPath is reported by Describe; informational only.
	DocsPath string

	Chunker chunker.Config

	// Workers bounds concurrent source loading. Defaults to NumCPU.
	Workers int

	Logger *slog.Logger
}

// Posting records how often a token occurs in one chunk, split by field.
type Posting struct {
	Chunk   int
	Body    int
	Heading int
}

// Index is the process-wide, built-once collection of chunks plus the
// derived token lookup used for keyword scoring. It is immutable after
// Build, so concurrent reads need no locking.
type Index struct {
	docsPath string
	chunks   []types.DocumentChunk
	docs     map[string]*chunker.Document
	postings map[string][]Posting
	sources  []string
}

// Build constructs an index from the given sources. A malformed or
// unreadable source is logged and skipped; it never aborts the remaining
// sources. Build fails only when every source failed.
func Build(ctx context.Context, cfg Config, sources []Source) (*Index, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ck := chunker.New(cfg.Chunker)

	// Parse concurrently, collect by position so final ordering is
	// deterministic regardless of completion order.
	docs := make([]*chunker.Document, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data := src.Data
			if data == nil {
				var err error
				data, err = os.ReadFile(src.Path)
				if err != nil {
					log.Warn("skipping unreadable source", "source", src.Name, "error", err)
					return nil
				}
			}
			doc, err := ck.Chunk(src.Name, src.Format, data)
			if err != nil {
				log.Warn("skipping malformed source", "source", src.Name, "error", err)
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix := &Index{
		docsPath: cfg.DocsPath,
		docs:     make(map[string]*chunker.Document),
		postings: make(map[string][]Posting),
	}
	parsed := 0
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		parsed++
		ix.docs[doc.Source] = doc
		ix.sources = append(ix.sources, doc.Source)
		for _, c := range doc.Chunks {
			ix.addChunk(c)
		}
	}
	if parsed == 0 && len(sources) > 0 {
		return nil, ErrNoSources
	}

	log.Info("index built", "sources", parsed, "chunks", len(ix.chunks))
	return ix, nil
}

// addChunk appends a chunk and merges its token counts into the postings.
func (ix *Index) addChunk(c types.DocumentChunk) {
	ordinal := len(ix.chunks)
	ix.chunks = append(ix.chunks, c)

	type counts struct{ body, heading int }
	local := make(map[string]*counts)
	bump := func(token string, heading bool) {
		for _, key := range append([]string{token}, Variants(token)...) {
			cnt := local[key]
			if cnt == nil {
				cnt = &counts{}
				local[key] = cnt
			}
			if heading {
				cnt.heading++
			} else {
				cnt.body++
			}
		}
	}
	for _, t := range Tokens(c.Content) {
		bump(t, false)
	}
	for _, t := range Tokens(c.Heading) {
		bump(t, true)
	}

	for key, cnt := range local {
		ix.postings[key] = append(ix.postings[key], Posting{
			Chunk:   ordinal,
			Body:    cnt.body,
			Heading: cnt.heading,
		})
	}
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Chunk returns a copy of the chunk at the given ordinal.
func (ix *Index) Chunk(i int) types.DocumentChunk {
	return ix.chunks[i]
}

// Postings returns the posting list for a token, in document order.
func (ix *Index) Postings(token string) []Posting {
	return ix.postings[token]
}

// TokenLines returns the 1-based line numbers at which a query token occurs
// within a chunk, deduplicated in order and capped at max entries.
func (ix *Index) TokenLines(chunkIdx int, token string, max int) []int {
	if chunkIdx < 0 || chunkIdx >= len(ix.chunks) {
		return nil
	}
	c := ix.chunks[chunkIdx]
	doc := ix.docs[c.Source]
	if doc == nil || c.EndOffset > len(doc.Text) {
		return nil
	}
	raw := doc.Text[c.StartOffset:c.EndOffset]

	seen := make(map[int]struct{})
	var lines []int
	for start := 0; start < len(raw) && len(lines) < max; {
		if !isTokenByte(raw[start]) {
			start++
			continue
		}
		end := start
		for end < len(raw) && isTokenByte(raw[end]) {
			end++
		}
		word := strings.ToLower(raw[start:end])
		if wordMatches(word, token) {
			line := doc.LineFor(c.StartOffset + start)
			if _, ok := seen[line]; !ok {
				seen[line] = struct{}{}
				lines = append(lines, line)
			}
		}
		start = end
	}
	return lines
}

// Describe summarizes the index for the status surface.
func (ix *Index) Describe() types.IndexSummary {
	uniq := make(map[string]struct{})
	for _, s := range ix.sources {
		uniq[displayName(s)] = struct{}{}
	}
	names := make([]string, 0, len(uniq))
	for s := range uniq {
		names = append(names, s)
	}
	sort.Strings(names)
	return types.IndexSummary{
		DocsPath:   ix.docsPath,
		ChunkCount: len(ix.chunks),
		Sources:    names,
	}
}

// DirSources lists indexable files under a docs path, which may be a single
// file or a directory scanned recursively for .md/.markdown/.json/.txt.
func DirSources(path string) ([]Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat docs path: %w", err)
	}

	if !info.IsDir() {
		if format, ok := formatForFile(path); ok {
			return []Source{{Name: path, Format: format, Path: path}}, nil
		}
		return nil, fmt.Errorf("unsupported docs file %q", path)
	}

	var sources []Source
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if format, ok := formatForFile(p); ok {
			sources = append(sources, Source{Name: p, Format: format, Path: p})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan docs dir: %w", err)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

func formatForFile(path string) (chunker.Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return chunker.FormatJSONRecords, true
	case ".md", ".markdown", ".txt":
		return chunker.FormatHeadingText, true
	default:
		return "", false
	}
}

func displayName(source string) string {
	if filepath.IsAbs(source) || strings.ContainsRune(source, os.PathSeparator) {
		return filepath.Base(source)
	}
	return source
}
