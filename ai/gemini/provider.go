package gemini

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/poiesic/skillmatch/ai"
	"google.golang.org/genai"
)

// Provider implements ai.Provider on the Gemini API.
type Provider struct {
	embedder *Embedder
	logger   *slog.Logger
}

// Option configures a Provider.
type Option func(*genai.ClientConfig)

// WithHTTPClient sets the HTTP client used for API calls.
// Tests use it to record and replay traffic.
func WithHTTPClient(client *http.Client) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPClient = client
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = url
	}
}

// NewProvider creates a Gemini provider authenticated with config.APIKey.
//
// Returns ai.Provider interface to enforce abstraction.
func NewProvider(ctx context.Context, config *ai.Config, opts ...Option) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(clientConfig)
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder: NewEmbedder(client, config.Model),
		logger:   slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op; the genai client holds no resources beyond its HTTP client.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
