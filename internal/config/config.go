// Package config loads process-wide configuration from the environment,
// mirroring the teacher's config-struct-with-Validate pattern
// (ai/providers/vectorstores/qdrant.VectorStoreConfig).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/nexusrfp/engine/pkg/dataunit"
)

// Config holds every process-wide setting the pipeline and its clients need.
// Required fields have no envDefault tag; optional fields default per the
// struct tag and are re-checked in Validate for sane bounds.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`

	BlobEndpoint  string `env:"BLOB_ENDPOINT"`
	BlobAccessKey string `env:"BLOB_ACCESS_KEY"`
	BlobSecretKey string `env:"BLOB_SECRET_KEY"`
	BlobBucket    string `env:"BLOB_BUCKET" envDefault:"rfp-artifacts"`
	BlobUseSSL    bool   `env:"BLOB_USE_SSL" envDefault:"true"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	LLMModel        string `env:"LLM_MODEL" envDefault:"claude-sonnet-4-5"`

	VoyageAPIKey   string `env:"VOYAGE_API_KEY"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"voyage-2"`
	EmbeddingDims  int    `env:"EMBEDDING_DIMS" envDefault:"1024"`

	GoogleAPIKey string `env:"GOOGLE_API_KEY"`

	ChunkMaxTokens     int `env:"CHUNK_MAX_TOKENS" envDefault:"4000"`
	ChunkOverlapTokens int `env:"CHUNK_OVERLAP_TOKENS" envDefault:"200"`

	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay   time.Duration `env:"RETRY_BASE_DELAY" envDefault:"2s"`
	RetryMaxDelay    time.Duration `env:"RETRY_MAX_DELAY" envDefault:"30s"`

	ScheduleExtractionTimeout time.Duration `env:"SCHEDULE_EXTRACTION_TIMEOUT" envDefault:"180s"`
	DefaultStageTimeout       time.Duration `env:"DEFAULT_STAGE_TIMEOUT" envDefault:"120s"`

	DedupeSimilarityThreshold float64 `env:"DEDUPE_SIMILARITY_THRESHOLD" envDefault:"0.95"`
	RetrievalMinSimilarity    float64 `env:"RETRIEVAL_MIN_SIMILARITY" envDefault:"0.30"`
	RetrievalTopK             int     `env:"RETRIEVAL_TOP_K" envDefault:"5"`

	SolutionOverview string `env:"SOLUTION_OVERVIEW_TEXT" envDefault:"Our platform delivers a configurable, cloud-hosted solution backed by a dedicated implementation team."`
	CompanyName      string `env:"COMPANY_NAME" envDefault:"Nexus Solutions"`

	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"104857600"`
}

// Load reads Config from the process environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields are present and optional fields fall
// within sane bounds, applying defaults where Parse left zero values that
// env.Parse's envDefault tag could not reach (derived/bounded fields).
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL is required")
	}
	if c.BlobEndpoint == "" {
		return fmt.Errorf("config: BLOB_ENDPOINT is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("config: ANTHROPIC_API_KEY is required")
	}
	if c.VoyageAPIKey == "" {
		return fmt.Errorf("config: VOYAGE_API_KEY is required")
	}
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("config: GOOGLE_API_KEY is required")
	}
	if c.ChunkMaxTokens <= 0 {
		c.ChunkMaxTokens = 4000
	}
	if c.ChunkOverlapTokens < 0 || c.ChunkOverlapTokens >= c.ChunkMaxTokens {
		c.ChunkOverlapTokens = 200
	}
	if c.RetryMaxAttempts <= 0 {
		c.RetryMaxAttempts = 3
	}
	if c.RetrievalTopK <= 0 {
		c.RetrievalTopK = 5
	}
	if c.EmbeddingDims <= 0 {
		return fmt.Errorf("config: EMBEDDING_DIMS must be positive")
	}
	if c.MaxUploadSize().Compare(dataunit.DataSize(dataunit.MB)) < 0 {
		return fmt.Errorf("config: MAX_UPLOAD_BYTES must be at least 1MB, got %d bytes", c.MaxUploadSize().Int64())
	}
	return nil
}

// MaxUploadSize wraps MaxUploadBytes as a typed, comparable data size
// rather than a bare int64, matching the teacher's dataunit
// package used throughout its own size-bound configuration.
func (c *Config) MaxUploadSize() dataunit.DataSize {
	return dataunit.DataSize(c.MaxUploadBytes)
}
