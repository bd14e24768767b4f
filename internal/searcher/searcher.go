package searcher

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/KNQuoc/cedar-docs-mcp/internal/embedder"
	"github.com/KNQuoc/cedar-docs-mcp/internal/index"
	"github.com/KNQuoc/cedar-docs-mcp/internal/vectorstore"
	"github.com/KNQuoc/cedar-docs-mcp/pkg/types"
)

// VectorStore is the nearest-neighbor lookup the semantic path depends on.
type VectorStore interface {
	MatchDocuments(ctx context.Context, q vectorstore.Query) ([]vectorstore.Row, error)
}

// Config holds the tunable retrieval parameters. The scoring weights are
// empirically chosen defaults, not fixed law.
type Config struct {
	// HeadingBoost multiplies heading occurrences in the keyword score.
	HeadingBoost float64

	// DomainTermBonus adds a fixed bonus when a matched query token appears
	// in this importance table.
	DomainTermBonus map[string]float64

	// MaxLimit caps the number of results per call.
	MaxLimit int

	// MaxContentLength truncates result content for payload size.
	MaxContentLength int

	// SimilarityThreshold discards semantic matches below it.
	SimilarityThreshold float64

	// ProductID filters vector store rows by product, when set.
	ProductID string

	// MaxTokenLines caps citation line numbers per matched token.
	MaxTokenLines int

	// CacheSize bounds the idempotent query cache. Zero disables it.
	CacheSize int
}

// DefaultLimit is the result count used when the caller does not specify one.
const DefaultLimit = 5

// DefaultConfig returns the default retrieval parameters.
func DefaultConfig() Config {
	return Config{
		HeadingBoost: 3,
		DomainTermBonus: map[string]float64{
			"mastra":   2,
			"agent":    2,
			"workflow": 2,
			"tool":     2,
			"memory":   2,
		},
		MaxLimit:            200,
		MaxContentLength:    2000,
		SimilarityThreshold: 0.5,
		MaxTokenLines:       10,
		CacheSize:           1000,
	}
}

// Request is a single search invocation.
type Request struct {
	Query string

	// Limit is the maximum number of results. Zero or negative returns an
	// empty list.
	Limit int

	// UseSemantic asks for the vector path. Honored only when the retriever
	// was configured with an embedder and a vector store.
	UseSemantic bool

	// DocType pins the corpus. Empty means auto-detect from the query.
	DocType types.DocType
}

// Response is an ordered result list plus the mode that actually produced it.
type Response struct {
	Results []types.SearchResult `json:"results"`
	Mode    types.Mode           `json:"mode"`
	DocType types.DocType        `json:"docType"`
}

// cacheKey identifies one idempotent request. A struct key keeps queries
// containing separator characters from colliding.
type cacheKey struct {
	query       string
	limit       int
	useSemantic bool
	docType     types.DocType
}

// mastraIndicators route auto-detected queries to the backend corpus.
var mastraIndicators = map[string]struct{}{
	"mastra": {}, "backend": {}, "workflow": {}, "workflows": {},
	"agent": {}, "agents": {}, "agentic": {}, "orchestration": {},
}

// Searcher answers queries against the immutable corpus indexes. Each call
// is stateless and independent; the only mutable state is the optional
// idempotent query cache.
type Searcher struct {
	indexes map[types.DocType]*index.Index
	emb     embedder.Embedder
	store   VectorStore
	cfg     Config
	log     *slog.Logger
	cache   *lru.Cache[cacheKey, *Response]
}

// New creates a Searcher over the cedar and mastra indexes. emb and store
// may be nil, in which case every call uses keyword mode.
func New(cfg Config, cedar, mastra *index.Index, emb embedder.Embedder, store VectorStore, log *slog.Logger) *Searcher {
	if log == nil {
		log = slog.Default()
	}
	s := &Searcher{
		indexes: map[types.DocType]*index.Index{
			types.DocTypeCedar:  cedar,
			types.DocTypeMastra: mastra,
		},
		emb:   emb,
		store: store,
		cfg:   cfg,
		log:   log,
	}
	if cfg.CacheSize > 0 {
		s.cache, _ = lru.New[cacheKey, *Response](cfg.CacheSize)
	}
	return s
}

// SemanticAvailable reports whether the vector path is configured.
func (s *Searcher) SemanticAvailable() bool {
	return s.emb != nil && s.store != nil
}

// Describe summarizes the index backing a corpus.
func (s *Searcher) Describe(docType types.DocType) types.IndexSummary {
	ix := s.indexes[docType]
	if ix == nil {
		return types.IndexSummary{Sources: []string{}}
	}
	return ix.Describe()
}

// Search returns ranked results for the query. Results come from exactly
// one mode; any semantic failure falls back to keyword for that call, and
// the mode actually used is reported in the response. Invalid input (empty
// query, non-positive limit) yields an empty result set, never an error.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	docType := s.resolveDocType(req.DocType, query)
	resp := &Response{
		Results: []types.SearchResult{},
		Mode:    types.ModeKeyword,
		DocType: docType,
	}

	if query == "" || req.Limit <= 0 {
		return resp, nil
	}
	limit := req.Limit
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	useSemantic := req.UseSemantic && s.SemanticAvailable()
	key := cacheKey{query: query, limit: limit, useSemantic: useSemantic, docType: docType}
	if cached := s.fromCache(key); cached != nil {
		return cached, nil
	}

	fellBack := false
	if useSemantic {
		results, err := s.semanticSearch(ctx, query, limit)
		if err != nil {
			// Transparent fallback: the caller sees keyword results and
			// mode "keyword" instead of a fault.
			s.log.Warn("semantic search failed, falling back to keyword",
				"docType", docType, "error", err)
			fellBack = true
		} else {
			resp.Mode = types.ModeSemantic
			resp.Results = results
			s.toCache(key, resp)
			return resp, nil
		}
	}

	resp.Results = s.keywordSearch(docType, query, limit)
	if !fellBack {
		s.toCache(key, resp)
	}
	return resp, nil
}

// resolveDocType honors a pinned corpus and otherwise classifies the query
// against the backend indicator vocabulary.
func (s *Searcher) resolveDocType(requested types.DocType, query string) types.DocType {
	switch requested {
	case types.DocTypeCedar, types.DocTypeMastra:
		return requested
	}
	for _, tok := range index.QueryTokens(query) {
		if _, ok := mastraIndicators[tok]; ok {
			return types.DocTypeMastra
		}
	}
	return types.DocTypeCedar
}

// keywordSearch runs deterministic lexical scoring over the corpus index.
func (s *Searcher) keywordSearch(docType types.DocType, query string, limit int) []types.SearchResult {
	ix := s.indexes[docType]
	if ix == nil || ix.Len() == 0 {
		return []types.SearchResult{}
	}
	tokens := index.QueryTokens(query)
	if len(tokens) == 0 {
		return []types.SearchResult{}
	}

	type hit struct {
		chunk   int
		score   float64
		matched map[string]int
	}
	hits := make(map[int]*hit)
	for _, tok := range tokens {
		bonus := s.cfg.DomainTermBonus[tok]
		for _, p := range ix.Postings(tok) {
			h := hits[p.Chunk]
			if h == nil {
				h = &hit{chunk: p.Chunk, matched: make(map[string]int)}
				hits[p.Chunk] = h
			}
			h.score += float64(p.Body) + float64(p.Heading)*s.cfg.HeadingBoost + bonus
			h.matched[tok] = p.Body + p.Heading
		}
	}

	ordered := make([]*hit, 0, len(hits))
	for _, h := range hits {
		ordered = append(ordered, h)
	}
	// Score descending, ties broken by document order for determinism.
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].score != ordered[j].score {
			return ordered[i].score > ordered[j].score
		}
		return ordered[i].chunk < ordered[j].chunk
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	results := make([]types.SearchResult, 0, len(ordered))
	for _, h := range ordered {
		chunk := ix.Chunk(h.chunk)
		tokenLines := make(map[string][]int)
		for tok := range h.matched {
			if lines := ix.TokenLines(h.chunk, tok, s.cfg.MaxTokenLines); len(lines) > 0 {
				tokenLines[tok] = lines
			}
		}
		results = append(results, types.SearchResult{
			Source:        chunk.Source,
			Heading:       chunk.Heading,
			Content:       s.truncate(chunk.Content),
			URL:           chunk.URL,
			MatchCount:    int(math.Round(h.score)),
			MatchedTokens: h.matched,
			Citations: &types.Citations{
				ApproxSpan: types.Span{Start: chunk.StartOffset, End: chunk.EndOffset},
				StartLine:  chunk.StartLine,
				EndLine:    chunk.EndLine,
				TokenLines: tokenLines,
			},
		})
	}
	return results
}

// semanticSearch embeds the query and asks the vector store for nearest
// neighbors. Any failure is returned to the caller for fallback handling.
func (s *Searcher) semanticSearch(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	vec, err := s.emb.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.store.MatchDocuments(ctx, vectorstore.Query{
		Embedding: vec,
		Threshold: s.cfg.SimilarityThreshold,
		Limit:     limit,
		ProductID: s.cfg.ProductID,
	})
	if err != nil {
		return nil, fmt.Errorf("match documents: %w", err)
	}

	results := make([]types.SearchResult, 0, len(rows))
	for _, r := range rows {
		if r.Similarity < s.cfg.SimilarityThreshold {
			continue
		}
		results = append(results, types.SearchResult{
			Source:     r.Metadata.SourceLabel,
			Heading:    r.Metadata.SectionTitle,
			Content:    s.truncate(r.Content),
			URL:        r.Metadata.URL,
			Similarity: r.Similarity,
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (s *Searcher) truncate(content string) string {
	if s.cfg.MaxContentLength > 0 && len(content) > s.cfg.MaxContentLength {
		return content[:s.cfg.MaxContentLength]
	}
	return content
}

func (s *Searcher) fromCache(key cacheKey) *Response {
	if s.cache == nil {
		return nil
	}
	resp, ok := s.cache.Get(key)
	if !ok {
		return nil
	}
	return copyResponse(resp)
}

func (s *Searcher) toCache(key cacheKey, resp *Response) {
	if s.cache == nil {
		return
	}
	s.cache.Add(key, copyResponse(resp))
}

// copyResponse deep-copies a response so cached entries are never shared
// with callers.
func copyResponse(src *Response) *Response {
	dst := &Response{
		Mode:    src.Mode,
		DocType: src.DocType,
		Results: make([]types.SearchResult, len(src.Results)),
	}
	for i, r := range src.Results {
		cp := r
		if r.MatchedTokens != nil {
			cp.MatchedTokens = make(map[string]int, len(r.MatchedTokens))
			for k, v := range r.MatchedTokens {
				cp.MatchedTokens[k] = v
			}
		}
		if r.Citations != nil {
			cit := *r.Citations
			if r.Citations.TokenLines != nil {
				cit.TokenLines = make(map[string][]int, len(r.Citations.TokenLines))
				for k, v := range r.Citations.TokenLines {
					cit.TokenLines[k] = slices.Clone(v)
				}
			}
			cp.Citations = &cit
		}
		dst.Results[i] = cp
	}
	return dst
}
