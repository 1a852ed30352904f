// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package skillmatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/ai/gemini"
	"github.com/poiesic/skillmatch/ai/mock"
	"github.com/poiesic/skillmatch/ai/openai"
	"github.com/poiesic/skillmatch/ai/sbert"
	"github.com/poiesic/skillmatch/recommend"
)

// ErrProviderRequired is returned when NewService is called without a provider.
var ErrProviderRequired = errors.New("provider required")

// Service owns an embedding provider and the recommender built on it.
// The embedder handed to the recommender is the provider's embedder wrapped
// for batch parallelism and, optionally, a circuit breaker.
type Service struct {
	provider    ai.Provider
	parallel    *ai.ParallelEmbedder
	breaker     *ai.BreakerEmbedder
	embedder    ai.Embedder
	recommender *recommend.Recommender
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	batchSize   int
	poolSize    int
	breaker     *ai.BreakerSettings
	recommendOp []recommend.Option
	logger      *slog.Logger
}

// WithParallelism splits candidate batches larger than batchSize into chunks
// embedded concurrently, at most poolSize at a time.
func WithParallelism(batchSize, poolSize int) ServiceOption {
	return func(o *serviceOptions) {
		o.batchSize = batchSize
		o.poolSize = poolSize
	}
}

// WithBreaker guards the embedder with a circuit breaker.
func WithBreaker(settings ai.BreakerSettings) ServiceOption {
	return func(o *serviceOptions) {
		o.breaker = &settings
	}
}

// WithRecommendOptions passes options through to recommend.NewRecommender.
func WithRecommendOptions(opts ...recommend.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.recommendOp = append(o.recommendOp, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService wires a recommender around provider. The Service takes
// ownership of provider and closes it in Close, including when NewService
// itself fails.
func NewService(provider ai.Provider, opts ...ServiceOption) (*Service, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	options := &serviceOptions{
		batchSize: ai.DefaultConfig().BatchSize,
		poolSize:  ai.DefaultConfig().PoolSize,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	s := &Service{
		provider: provider,
		logger:   options.logger.With("component", "service"),
	}

	parallel, err := ai.NewParallelEmbedder(provider.Embedder(), options.batchSize, options.poolSize)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.parallel = parallel
	s.embedder = parallel

	if options.breaker != nil {
		settings := *options.breaker
		if settings.Logger == nil {
			settings.Logger = options.logger
		}
		s.breaker = ai.NewBreakerEmbedder(s.embedder, settings)
		s.embedder = s.breaker
	}

	recOpts := append([]recommend.Option{recommend.WithLogger(options.logger)}, options.recommendOp...)
	recommender, err := recommend.NewRecommender(s.embedder, recOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.recommender = recommender

	return s, nil
}

// Recommender returns the configured recommender.
func (s *Service) Recommender() *recommend.Recommender {
	return s.recommender
}

// Embedder returns the embedder the recommender uses, with every wrapper applied.
func (s *Service) Embedder() ai.Embedder {
	return s.embedder
}

// BreakerState returns the circuit breaker state, or "disabled" when the
// service was built without one.
func (s *Service) BreakerState() string {
	if s.breaker == nil {
		return "disabled"
	}
	return s.breaker.State()
}

// Probe embeds a probe text with retries and returns the vector dimension.
func (s *Service) Probe(ctx context.Context, attempts int, delay time.Duration) (int, error) {
	return ai.Probe(ctx, s.embedder, attempts, delay)
}

// Close releases the worker pool and closes the provider.
func (s *Service) Close() error {
	if s.parallel != nil {
		s.parallel.Release()
	}
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing embedding provider", "err", err)
		return err
	}
	return nil
}

// NewProvider opens the embedding backend named by config.Backend.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Backend {
	case ai.BackendOpenAI:
		return openai.NewProvider(config)
	case ai.BackendGemini:
		return gemini.NewProvider(ctx, config)
	case ai.BackendSBERT:
		return sbert.NewProvider(ctx, config)
	case ai.BackendMock:
		slog.Default().Warn("using mock embedder; recommendations are not semantic")
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported embedding backend %q", config.Backend)
	}
}
