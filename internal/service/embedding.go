package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/talentbridge/matchai/internal/domain"
	"github.com/talentbridge/matchai/internal/openai"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingProvider turns text blobs into fixed-dimension unit vectors.
// The underlying client handle is created once on first use and shared;
// it is safe for concurrent use by multiple scoring operations.
type EmbeddingProvider struct {
	dim     int
	factory func() (EmbeddingClient, error)

	once   sync.Once
	client EmbeddingClient
	err    error
}

// NewEmbeddingProvider creates a provider that lazily builds its client
// via factory on the first Embed call.
func NewEmbeddingProvider(dim int, factory func() (EmbeddingClient, error)) *EmbeddingProvider {
	if dim <= 0 {
		dim = domain.EmbeddingDim
	}
	return &EmbeddingProvider{dim: dim, factory: factory}
}

// NewEmbeddingProviderWithClient creates a provider around an existing client.
func NewEmbeddingProviderWithClient(dim int, client EmbeddingClient) *EmbeddingProvider {
	return NewEmbeddingProvider(dim, func() (EmbeddingClient, error) {
		return client, nil
	})
}

// Embed maps text to a unit-length vector of the configured dimension.
// Empty or whitespace-only text yields the zero vector without touching
// the model; this is a defined degenerate case, not an error.
func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return make([]float32, p.dim), nil
	}

	client, err := p.handle()
	if err != nil {
		return nil, err
	}

	embedding, err := client.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, classifyUpstream(err)
	}

	if len(embedding) != p.dim {
		return nil, domain.ErrDimensionMismatch
	}

	return normalize(embedding), nil
}

// Dim returns the configured embedding dimension.
func (p *EmbeddingProvider) Dim() int {
	return p.dim
}

func (p *EmbeddingProvider) handle() (EmbeddingClient, error) {
	p.once.Do(func() {
		p.client, p.err = p.factory()
	})
	return p.client, p.err
}

// classifyUpstream maps client sentinels to the domain error taxonomy so
// handlers can distinguish retry-exhausted upstream failures from hard ones.
func classifyUpstream(err error) error {
	switch {
	case errors.Is(err, openai.ErrRateLimited):
		return domain.NewDomainErrorWithCause(domain.ErrCodeUpstreamRateLimit, "embedding provider rate limited", err)
	case errors.Is(err, openai.ErrTimedOut):
		return domain.NewDomainErrorWithCause(domain.ErrCodeUpstreamTimeout, "embedding provider timed out", err)
	default:
		return err
	}
}

// normalize scales a vector to unit length. Zero vectors pass through
// unchanged.
func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}

	norm = math.Sqrt(norm)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
