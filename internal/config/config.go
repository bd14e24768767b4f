// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration. Every field is optional; the
// server degrades to keyword-only search when the semantic credentials
// are absent.
type Config struct {
	// CedarDocsPath and MastraDocsPath point at local documentation trees.
	// When empty the embedded corpora are indexed instead.
	CedarDocsPath  string `envconfig:"CEDAR_DOCS_PATH"`
	MastraDocsPath string `envconfig:"MASTRA_DOCS_PATH"`

	// Semantic search credentials. All three must be set for the vector
	// path to be available.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	SupabaseURL  string `envconfig:"SUPABASE_URL"`
	SupabaseKey  string `envconfig:"SUPABASE_KEY"`

	// ProductID scopes vector store rows to one product corpus.
	ProductID string `envconfig:"PRODUCT_ID"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Retrieval tunables.
	HeadingBoost        float64 `envconfig:"HEADING_BOOST" default:"3"`
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.5"`
	MaxChunkSize        int     `envconfig:"MAX_CHUNK_SIZE" default:"4000"`
	QueryCacheSize      int     `envconfig:"QUERY_CACHE_SIZE" default:"1000"`
	EmbeddingCacheSize  int     `envconfig:"EMBEDDING_CACHE_SIZE" default:"10000"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CEDARDOCS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// SemanticEnabled reports whether every credential the vector path needs
// is present.
func (c *Config) SemanticEnabled() bool {
	return c.OpenAIAPIKey != "" && c.SupabaseURL != "" && c.SupabaseKey != ""
}

// SlogLevel maps the configured level name onto slog. Unknown names fall
// back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
