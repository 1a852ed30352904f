package sbert

import (
	"context"
	"log/slog"

	"github.com/poiesic/skillmatch/ai"
)

// Provider implements ai.Provider with local sentence-transformers workers.
type Provider struct {
	embedder *Embedder
	logger   *slog.Logger
}

// NewProvider starts config.Workers encoder processes using config.Python and
// loads config.Model in each. It blocks until every worker is ready or ctx ends.
//
// Returns ai.Provider interface to enforce abstraction.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "sbert-embedder", "model", config.Model)
	embedder, err := newEmbedder(ctx, config.Workers, processStarter(config.Python, config.Model, logger), logger)
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder: embedder,
		logger:   slog.Default().With("component", "sbert-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close stops the encoder processes.
func (p *Provider) Close() error {
	p.logger.Debug("closing sbert provider")
	return p.embedder.Close()
}
