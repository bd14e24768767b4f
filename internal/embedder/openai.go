package embedder

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the embedding model the vector store was populated with.
	DefaultModel = openai.SmallEmbedding3
	// DefaultDimensions matches the vector store schema
	// (text-embedding-3-small with reduced dimensions).
	DefaultDimensions = 512
)

// Config configures the OpenAI embedding provider.
type Config struct {
	APIKey     string
	BaseURL    string // optional override, used in tests
	Model      openai.EmbeddingModel
	Dimensions int
	CacheSize  int
}

// OpenAIProvider implements Embedder using the OpenAI embeddings API.
type OpenAIProvider struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	cache      *Cache
	retry      RetryConfig
}

// NewOpenAIProvider creates an OpenAI embedder.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		dimensions: dimensions,
		cache:      NewCache(cfg.CacheSize),
		retry:      DefaultRetryConfig(),
	}, nil
}

// GenerateEmbedding returns the embedding for text, serving repeated inputs
// from the LRU cache.
func (o *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ComputeHash(text)
	if v, ok := o.cache.Get(hash); ok {
		return v, nil
	}

	vector, err := retryWithBackoff(ctx, o.retry, func() ([]float32, error) {
		resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      []string{text},
			Model:      o.model,
			Dimensions: o.dimensions,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("%w: no embedding data returned", ErrProviderFailed)
		}
		return resp.Data[0].Embedding, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	if len(vector) != o.dimensions {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d", ErrProviderFailed, len(vector), o.dimensions)
	}

	o.cache.Set(hash, vector)
	return vector, nil
}

// Dimension returns the embedding dimensionality.
func (o *OpenAIProvider) Dimension() int {
	return o.dimensions
}

// Close releases provider resources.
func (o *OpenAIProvider) Close() error {
	return nil
}
