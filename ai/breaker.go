package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSettings configures a BreakerEmbedder.
type BreakerSettings struct {
	// Name identifies the breaker in logs and metrics.
	Name string
	// ConsecutiveFailures opens the breaker once this many calls fail in a row.
	ConsecutiveFailures uint32
	// Timeout is how long the breaker stays open before letting a trial call through.
	Timeout time.Duration
	// OnStateChange is called after every transition. Optional.
	OnStateChange func(name string, from, to string)
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// BreakerEmbedder wraps an Embedder with a circuit breaker. While the breaker
// is open, calls fail fast with ErrEmbedderUnavailable.
type BreakerEmbedder struct {
	next   Embedder
	cb     *gobreaker.CircuitBreaker[[][]float32]
	logger *slog.Logger
}

// NewBreakerEmbedder wraps next with a circuit breaker.
func NewBreakerEmbedder(next Embedder, settings BreakerSettings) *BreakerEmbedder {
	if settings.Name == "" {
		settings.Name = "embedder"
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	logger := settings.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "embedder-breaker", "breaker", settings.Name)

	threshold := settings.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "from", from.String(), "to", to.String())
			if settings.OnStateChange != nil {
				settings.OnStateChange(name, from.String(), to.String())
			}
		},
		// A caller giving up is not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerEmbedder{next: next, cb: cb, logger: logger}
}

// EmbedText generates a vector embedding for a single text string.
func (b *BreakerEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := b.execute(func() ([][]float32, error) {
		vec, err := b.next.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		return [][]float32{vec}, nil
	})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (b *BreakerEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return b.execute(func() ([][]float32, error) {
		return b.next.EmbedTexts(ctx, texts)
	})
}

// State reports the breaker state: "closed", "half-open" or "open".
func (b *BreakerEmbedder) State() string {
	return b.cb.State().String()
}

func (b *BreakerEmbedder) execute(fn func() ([][]float32, error)) ([][]float32, error) {
	vecs, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.logger.Debug("request rejected", "err", err)
			return nil, fmt.Errorf("%w: %v", ErrEmbedderUnavailable, err)
		}
		return nil, err
	}
	return vecs, nil
}
