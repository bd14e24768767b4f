// Package vectorstore is an HTTP client for a Supabase-style vector store.
//
// Nearest-neighbor lookups go through a PostgREST RPC function
// (match_documents) that takes a query embedding, a similarity threshold, a
// result count, and a product filter, and returns rows ordered by cosine
// similarity. The client is the only component that talks to the store.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultFunction is the RPC function performing the similarity lookup.
	DefaultFunction = "match_documents"

	defaultTimeout = 30 * time.Second
)

// Query is a nearest-neighbor request.
type Query struct {
	Embedding []float32
	Threshold float64
	Limit     int
	ProductID string
}

// Metadata carries the row fields used for citations.
type Metadata struct {
	SourceLabel  string `json:"source_label"`
	URL          string `json:"url"`
	SectionTitle string `json:"section_title"`
}

// Row is one ranked match returned by the store.
type Row struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Similarity float64  `json:"similarity"`
	Metadata   Metadata `json:"metadata"`
}

// Client talks to the vector store's REST endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	function   string
	httpClient *http.Client
}

// New creates a client for the store at baseURL authenticated with apiKey.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		function:   DefaultFunction,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// MatchDocuments runs the similarity RPC and returns ranked rows.
func (c *Client) MatchDocuments(ctx context.Context, q Query) ([]Row, error) {
	reqBody := map[string]any{
		"query_embedding": q.Embedding,
		"match_threshold": q.Threshold,
		"match_count":     q.Limit,
	}
	if q.ProductID != "" {
		reqBody["product_filter"] = q.ProductID
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal rpc body: %w", err)
	}

	url := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, c.function)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if trimmed := strings.TrimSpace(string(msg)); trimmed != "" {
			return nil, fmt.Errorf("vector store status %s: %s", resp.Status, trimmed)
		}
		return nil, fmt.Errorf("vector store status %s", resp.Status)
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	return rows, nil
}
