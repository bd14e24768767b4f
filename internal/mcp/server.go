package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/KNQuoc/cedar-docs-mcp/internal/chunker"
	"github.com/KNQuoc/cedar-docs-mcp/internal/config"
	"github.com/KNQuoc/cedar-docs-mcp/internal/embedder"
	"github.com/KNQuoc/cedar-docs-mcp/internal/index"
	"github.com/KNQuoc/cedar-docs-mcp/internal/searcher"
	"github.com/KNQuoc/cedar-docs-mcp/internal/vectorstore"
	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "cedar-docs-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	searcher *searcher.Searcher
	emb      embedder.Embedder
	log      *slog.Logger
}

// NewServer builds both documentation indexes and wires the retrieval
// stack. Semantic search is enabled only when the config carries all of
// its credentials; otherwise the server runs keyword-only.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	ccfg := chunker.Config{MaxChunkSize: cfg.MaxChunkSize}

	cedar, err := buildIndex(ctx, ccfg, log, types.DocTypeCedar, cfg.CedarDocsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build cedar index: %w", err)
	}
	mastra, err := buildIndex(ctx, ccfg, log, types.DocTypeMastra, cfg.MastraDocsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build mastra index: %w", err)
	}

	var emb embedder.Embedder
	var store searcher.VectorStore
	if cfg.SemanticEnabled() {
		emb, err = embedder.NewOpenAIProvider(embedder.Config{
			APIKey:    cfg.OpenAIAPIKey,
			CacheSize: cfg.EmbeddingCacheSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		store = vectorstore.New(cfg.SupabaseURL, cfg.SupabaseKey)
		log.Info("semantic search enabled", "dimensions", emb.Dimension())
	} else {
		log.Info("semantic search disabled, keyword mode only")
	}

	scfg := searcher.DefaultConfig()
	scfg.HeadingBoost = cfg.HeadingBoost
	scfg.SimilarityThreshold = cfg.SimilarityThreshold
	scfg.ProductID = cfg.ProductID
	scfg.CacheSize = cfg.QueryCacheSize

	srch := searcher.New(scfg, cedar, mastra, emb, store, log)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		searcher: srch,
		emb:      emb,
		log:      log,
	}
	s.registerTools()
	return s, nil
}

// buildIndex indexes a local documentation tree, or the embedded corpus
// when no path is configured. A missing, empty, or unindexable external
// path degrades to the embedded corpus with a warning; only a failure to
// index the embedded corpus itself is fatal.
func buildIndex(ctx context.Context, ccfg chunker.Config, log *slog.Logger, docType types.DocType, docsPath string) (*index.Index, error) {
	if docsPath != "" {
		sources, err := index.DirSources(docsPath)
		if err == nil && len(sources) == 0 {
			err = index.ErrNoSources
		}
		if err == nil {
			ix, buildErr := index.Build(ctx, index.Config{
				DocsPath: docsPath,
				Chunker:  ccfg,
				Logger:   log,
			}, sources)
			if buildErr == nil {
				return ix, nil
			}
			err = buildErr
		}
		log.Warn("docs path unusable, falling back to embedded corpus",
			"docType", docType, "path", docsPath, "error", err)
	}

	builtin := index.BuiltinSource(docType)
	return index.Build(ctx, index.Config{
		DocsPath: builtin.Name,
		Chunker:  ccfg,
		Logger:   log,
	}, []index.Source{builtin})
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		if s.emb != nil {
			_ = s.emb.Close()
		}
	}()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocsTool(), s.handleSearchDocs)
	s.mcp.AddTool(describeIndexTool(), s.handleDescribeIndex)
}
