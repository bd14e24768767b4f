// Package index builds and serves the in-memory documentation index.
//
// An Index is constructed once at startup from a fixed list of sources (an
// embedded built-in corpus plus an optional external docs path) and is
// immutable afterwards, so concurrent queries need no locking. Each source
// either indexes completely or is skipped with a warning; a bad source never
// aborts the build.
//
// The keyword lookup is an inverted index from lower-cased tokens to posting
// lists carrying per-chunk occurrence counts, split between body and heading
// so the scorer can boost heading matches. Tokens are indexed together with
// simple suffix-stripped variants (plural and participle forms), so a query
// for "voice" matches a chunk containing "voices".
//
//	sources := append([]index.Source{index.BuiltinSource(types.DocTypeCedar)}, extra...)
//	ix, err := index.Build(ctx, index.Config{DocsPath: path}, sources)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary := ix.Describe() // {docsPath, chunkCount, sources}
package index
