package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KNQuoc/cedar-docs-mcp/internal/chunker"
	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const voiceDoc = "# Chat Components\nUse the ChatInput component for text entry.\n\n" +
	"# Voice Setup\nUse the voice button for microphone access.\nThe voice button requires permission.\n"

func buildTestIndex(t *testing.T, sources ...Source) *Index {
	t.Helper()
	ix, err := Build(context.Background(), Config{
		DocsPath: "test-docs",
		Logger:   testLogger,
	}, sources)
	require.NoError(t, err)
	return ix
}

func TestBuildIndexesSources(t *testing.T) {
	ix := buildTestIndex(t, Source{
		Name:   "cedar.md",
		Format: chunker.FormatHeadingText,
		Data:   []byte(voiceDoc),
	})

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, "Chat Components", ix.Chunk(0).Heading)
	assert.Equal(t, "Voice Setup", ix.Chunk(1).Heading)
}

func TestBuildPostingsSplitBodyAndHeading(t *testing.T) {
	ix := buildTestIndex(t, Source{
		Name:   "cedar.md",
		Format: chunker.FormatHeadingText,
		Data:   []byte(voiceDoc),
	})

	posts := ix.Postings("voice")
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].Chunk)
	assert.Equal(t, 2, posts[0].Body, "two body occurrences of voice")
	assert.Equal(t, 1, posts[0].Heading, "one heading occurrence of voice")

	assert.Empty(t, ix.Postings("missing"))
}

func TestBuildIndexesVariants(t *testing.T) {
	ix := buildTestIndex(t, Source{
		Name:   "mastra.md",
		Format: chunker.FormatHeadingText,
		Data:   []byte("# Workflows\nChain agents into workflows.\n"),
	})

	// The plural is indexed under its singular variant too, so the query
	// token "workflow" finds it.
	posts := ix.Postings("workflow")
	require.Len(t, posts, 1)
	assert.Equal(t, 2, posts[0].Body+posts[0].Heading)
}

func TestBuildSkipsMalformedSource(t *testing.T) {
	ix := buildTestIndex(t,
		Source{Name: "bad.json", Format: chunker.FormatJSONRecords, Data: []byte("{broken")},
		Source{Name: "good.md", Format: chunker.FormatHeadingText, Data: []byte(voiceDoc)},
	)
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []string{"good.md"}, ix.Describe().Sources)
}

func TestBuildSkipsUnreadableSource(t *testing.T) {
	ix := buildTestIndex(t,
		Source{Name: "gone.md", Format: chunker.FormatHeadingText, Path: filepath.Join(t.TempDir(), "missing.md")},
		Source{Name: "good.md", Format: chunker.FormatHeadingText, Data: []byte(voiceDoc)},
	)
	assert.Equal(t, 2, ix.Len())
}

func TestBuildFailsWhenAllSourcesFail(t *testing.T) {
	_, err := Build(context.Background(), Config{Logger: testLogger}, []Source{
		{Name: "bad.json", Format: chunker.FormatJSONRecords, Data: []byte("{broken")},
	})
	require.ErrorIs(t, err, ErrNoSources)
}

func TestBuildEmptySourceList(t *testing.T) {
	ix, err := Build(context.Background(), Config{Logger: testLogger}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())
}

func TestBuildDeterministicOrdering(t *testing.T) {
	sources := []Source{
		{Name: "a.md", Format: chunker.FormatHeadingText, Data: []byte("# One\nfirst doc content.\n")},
		{Name: "b.md", Format: chunker.FormatHeadingText, Data: []byte("# Two\nsecond doc content.\n")},
		{Name: "c.md", Format: chunker.FormatHeadingText, Data: []byte("# Three\nthird doc content.\n")},
	}
	first := buildTestIndex(t, sources...)
	second := buildTestIndex(t, sources...)

	require.Equal(t, first.Len(), second.Len())
	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.Chunk(i), second.Chunk(i))
	}
}

func TestTokenLines(t *testing.T) {
	ix := buildTestIndex(t, Source{
		Name:   "cedar.md",
		Format: chunker.FormatHeadingText,
		Data:   []byte(voiceDoc),
	})

	// Voice Setup body spans lines 5-6 and mentions "voice" on both.
	lines := ix.TokenLines(1, "voice", 10)
	assert.Equal(t, []int{5, 6}, lines)

	assert.Empty(t, ix.TokenLines(1, "chatinput", 10))
	assert.Empty(t, ix.TokenLines(99, "voice", 10))
}

func TestTokenLinesCapped(t *testing.T) {
	ix := buildTestIndex(t, Source{
		Name:   "cedar.md",
		Format: chunker.FormatHeadingText,
		Data:   []byte("# Voice\nvoice\nvoice\nvoice\nvoice\n"),
	})
	lines := ix.TokenLines(0, "voice", 2)
	assert.Len(t, lines, 2)
}

func TestDescribe(t *testing.T) {
	ix := buildTestIndex(t,
		Source{Name: "/tmp/docs/cedar.md", Format: chunker.FormatHeadingText, Data: []byte(voiceDoc)},
		Source{Name: "records.json", Format: chunker.FormatJSONRecords, Data: []byte(`[{"heading":"H","content":"Some record content."}]`)},
	)

	summary := ix.Describe()
	assert.Equal(t, "test-docs", summary.DocsPath)
	assert.Equal(t, 3, summary.ChunkCount)
	assert.Equal(t, []string{"cedar.md", "records.json"}, summary.Sources)
}

func TestDirSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("# B\nbeta content.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.png"), []byte{1, 2}, 0o644))

	sources, err := DirSources(dir)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, chunker.FormatJSONRecords, sources[0].Format)
	assert.Equal(t, chunker.FormatHeadingText, sources[1].Format)
}

func TestDirSourcesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Doc\ncontent here.\n"), 0o644))

	sources, err := DirSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, path, sources[0].Name)
}

func TestDirSourcesMissingPath(t *testing.T) {
	_, err := DirSources(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestBuiltinSources(t *testing.T) {
	for _, docType := range []types.DocType{types.DocTypeCedar, types.DocTypeMastra} {
		src := BuiltinSource(docType)
		assert.NotEmpty(t, src.Data)
		assert.Equal(t, chunker.FormatHeadingText, src.Format)

		ix := buildTestIndex(t, src)
		assert.Greater(t, ix.Len(), 0)
	}
}
