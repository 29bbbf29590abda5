// Package embed implements the Embed capability (spec §4.F): converting
// text to fixed-length float32 vectors via an OpenAI-compatible HTTP
// transport, plus a dimension-normalizing wrapper. Ported near-verbatim
// from horosembed (horosembed.go, client.go, vector.go) — a
// transport-agnostic embedding client is exactly this spec's contract.
package embed

import (
	"context"
	"log/slog"
	"time"
)

// Embedder converts text to vectors.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension returns the vector dimension, or 0 if not yet detected.
	Dimension() int
	// Model returns the model name.
	Model() string
}

// Config configures an embedding client.
type Config struct {
	// Endpoint is the embedding server's base URL. Empty selects a
	// NoopEmbedder producing zero vectors — useful for tests and for
	// ingest runs where vector search isn't needed yet.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// Model is the model name sent in each request.
	Model string `json:"model" yaml:"model"`
	// Dimension is the expected vector length. 0 auto-detects from the
	// first response.
	Dimension int `json:"dimension" yaml:"dimension"`
	// BatchSize bounds texts per HTTP request. Default: 32.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
	// Timeout per HTTP request. Default: 30s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Logger defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// New builds an Embedder from Config. An empty Endpoint yields a
// NoopEmbedder.
func New(cfg Config) Embedder {
	cfg.defaults()
	if cfg.Endpoint == "" {
		dim := cfg.Dimension
		if dim <= 0 {
			dim = 768
		}
		return &noopEmbedder{dim: dim, model: cfg.Model}
	}
	return newOpenAIClient(cfg)
}

// noopEmbedder returns zero vectors.
type noopEmbedder struct {
	dim   int
	model string
}

func (n *noopEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, n.dim), nil
}

func (n *noopEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, n.dim)
	}
	return out, nil
}

func (n *noopEmbedder) Dimension() int { return n.dim }
func (n *noopEmbedder) Model() string  { return n.model }
