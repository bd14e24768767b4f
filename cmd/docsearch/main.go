// Command docsearch runs a one-shot keyword query against a documentation
// tree from the command line. It is a development aid for inspecting what
// the index and scorer produce without going through the MCP transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/KNQuoc/cedar-docs-mcp/internal/index"
	"github.com/KNQuoc/cedar-docs-mcp/internal/searcher"
	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

func main() {
	docsPath := flag.String("docs", "", "path to a documentation file or directory (default: embedded corpus)")
	docType := flag.String("type", "", "corpus to search: cedar or mastra (default: auto-detect)")
	limit := flag.Int("limit", searcher.DefaultLimit, "maximum number of results")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: docsearch [flags] <query>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	query := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	build := func(dt types.DocType) *index.Index {
		sources := []index.Source{index.BuiltinSource(dt)}
		name := sources[0].Name
		if *docsPath != "" {
			var err error
			sources, err = index.DirSources(*docsPath)
			if err != nil {
				logger.Error("failed to read docs", "path", *docsPath, "error", err)
				os.Exit(1)
			}
			name = *docsPath
		}
		ix, err := index.Build(ctx, index.Config{DocsPath: name, Logger: logger}, sources)
		if err != nil {
			logger.Error("failed to build index", "error", err)
			os.Exit(1)
		}
		return ix
	}

	cedar := build(types.DocTypeCedar)
	mastra := cedar
	if *docsPath == "" {
		mastra = build(types.DocTypeMastra)
	}

	srch := searcher.New(searcher.DefaultConfig(), cedar, mastra, nil, nil, logger)
	resp, err := srch.Search(ctx, searcher.Request{
		Query:   query,
		Limit:   *limit,
		DocType: types.DocType(*docType),
	})
	if err != nil {
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("corpus=%s mode=%s results=%d\n\n", resp.DocType, resp.Mode, len(resp.Results))
	for i, r := range resp.Results {
		fmt.Printf("%d. [%s] %s (score %d)\n", i+1, r.Source, r.Heading, r.MatchCount)
		if r.Citations != nil {
			fmt.Printf("   lines %d-%d\n", r.Citations.StartLine, r.Citations.EndLine)
		}
		content := r.Content
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		fmt.Printf("   %s\n\n", content)
	}
}
