package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KNQuoc/cedar-docs-mcp/internal/config"
	"github.com/KNQuoc/cedar-docs-mcp/internal/index"
	"github.com/KNQuoc/cedar-docs-mcp/internal/searcher"
	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// newTestServer wires a server over the embedded corpora, keyword-only.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	cedar, err := index.Build(ctx, index.Config{DocsPath: "builtin/cedar.md", Logger: testLogger},
		[]index.Source{index.BuiltinSource(types.DocTypeCedar)})
	require.NoError(t, err)
	mastra, err := index.Build(ctx, index.Config{DocsPath: "builtin/mastra.md", Logger: testLogger},
		[]index.Source{index.BuiltinSource(types.DocTypeMastra)})
	require.NoError(t, err)

	return &Server{
		searcher: searcher.New(searcher.DefaultConfig(), cedar, mastra, nil, nil, testLogger),
		log:      testLogger,
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultPayload decodes the JSON text content of a tool result.
func resultPayload(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &payload))
	return payload
}

func TestNewServerMissingDocsPathFallsBack(t *testing.T) {
	cfg := &config.Config{
		CedarDocsPath: filepath.Join(t.TempDir(), "does-not-exist"),
	}

	s, err := NewServer(context.Background(), cfg, testLogger)
	require.NoError(t, err, "a bad docs path must degrade, not kill startup")

	summary := s.searcher.Describe(types.DocTypeCedar)
	assert.Equal(t, "builtin/cedar.md", summary.DocsPath)
	assert.Greater(t, summary.ChunkCount, 0)

	result, err := s.handleSearchDocs(context.Background(), callRequest(map[string]interface{}{
		"query": "voice",
		"limit": float64(1),
	}))
	require.NoError(t, err)
	payload := resultPayload(t, result)
	assert.Equal(t, float64(1), payload["resultCount"])
}

func TestNewServerUnindexableDocsPathFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	cfg := &config.Config{MastraDocsPath: dir}
	s, err := NewServer(context.Background(), cfg, testLogger)
	require.NoError(t, err)

	summary := s.searcher.Describe(types.DocTypeMastra)
	assert.Equal(t, "builtin/mastra.md", summary.DocsPath)
	assert.Greater(t, summary.ChunkCount, 0)
}

func TestNewServerEmptyDocsDirFallsBack(t *testing.T) {
	cfg := &config.Config{CedarDocsPath: t.TempDir()}
	s, err := NewServer(context.Background(), cfg, testLogger)
	require.NoError(t, err)

	summary := s.searcher.Describe(types.DocTypeCedar)
	assert.Equal(t, "builtin/cedar.md", summary.DocsPath)
}

func TestNewServerUsesConfiguredDocsPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.md"),
		[]byte("# Local Guide\nLocal corpus content about widgets.\n"), 0o644))

	cfg := &config.Config{CedarDocsPath: dir}
	s, err := NewServer(context.Background(), cfg, testLogger)
	require.NoError(t, err)

	summary := s.searcher.Describe(types.DocTypeCedar)
	assert.Equal(t, dir, summary.DocsPath)
	assert.Equal(t, []string{"local.md"}, summary.Sources)
}

func TestHandleSearchDocs(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSearchDocs(context.Background(), callRequest(map[string]interface{}{
		"query": "how do I set up voice",
		"limit": float64(1),
	}))
	require.NoError(t, err)

	payload := resultPayload(t, result)
	assert.Equal(t, "keyword", payload["searchMode"])
	assert.Equal(t, "cedar", payload["docType"])
	assert.Equal(t, float64(1), payload["resultCount"])

	results, ok := payload["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)

	top, ok := results[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Voice Setup", top["heading"])
	assert.NotNil(t, top["citations"])
}

func TestHandleSearchDocsEmptyQuery(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSearchDocs(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err, "missing query yields an empty payload, not an error")

	payload := resultPayload(t, result)
	assert.Equal(t, float64(0), payload["resultCount"])
}

func TestHandleSearchDocsDefaultLimit(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSearchDocs(context.Background(), callRequest(map[string]interface{}{
		"query": "the component agent chat",
	}))
	require.NoError(t, err)

	payload := resultPayload(t, result)
	results := payload["results"].([]interface{})
	assert.LessOrEqual(t, len(results), searcher.DefaultLimit)
}

func TestHandleSearchDocsDocTypePinned(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSearchDocs(context.Background(), callRequest(map[string]interface{}{
		"query":    "agent workflow",
		"doc_type": "cedar",
	}))
	require.NoError(t, err)

	payload := resultPayload(t, result)
	assert.Equal(t, "cedar", payload["docType"])
}

func TestHandleSearchDocsInvalidDocType(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleSearchDocs(context.Background(), callRequest(map[string]interface{}{
		"query":    "voice",
		"doc_type": "python",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleSearchDocsInvalidArguments(t *testing.T) {
	s := newTestServer(t)

	var req mcp.CallToolRequest
	req.Params.Arguments = "not a map"
	_, err := s.handleSearchDocs(context.Background(), req)
	require.Error(t, err)
}

func TestHandleDescribeIndex(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleDescribeIndex(context.Background(), callRequest(nil))
	require.NoError(t, err)

	payload := resultPayload(t, result)
	assert.Equal(t, false, payload["semanticSearchAvailable"])

	for _, corpus := range []string{"cedar", "mastra"} {
		summary, ok := payload[corpus].(map[string]interface{})
		require.True(t, ok, "missing %s summary", corpus)
		assert.Greater(t, summary["chunkCount"], float64(0))
		assert.NotEmpty(t, summary["sources"])
	}
}

func TestHandleDescribeIndexSingleCorpus(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleDescribeIndex(context.Background(), callRequest(map[string]interface{}{
		"doc_type": "mastra",
	}))
	require.NoError(t, err)

	payload := resultPayload(t, result)
	_, hasCedar := payload["cedar"]
	assert.False(t, hasCedar)
	assert.Contains(t, payload, "mastra")
}
