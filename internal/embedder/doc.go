// Package embedder generates query embeddings for semantic search.
//
// The single provider wraps the OpenAI embeddings API
// (text-embedding-3-small at 512 dimensions, matching the vector store
// schema) behind a small Embedder interface, with an LRU cache keyed by
// content hash and exponential-backoff retry on transient API failures.
//
// Absence of an API key is a configuration state, not an error: the
// retriever simply runs keyword-only when no embedder is available.
package embedder
