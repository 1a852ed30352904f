package ai

import "errors"

var (
	// ErrEmbedderUnavailable is returned while the embedding backend is
	// considered down and calls are being rejected without being attempted.
	ErrEmbedderUnavailable = errors.New("embedder unavailable")

	// ErrEmbeddingCountMismatch is returned when a backend returns a different
	// number of vectors than texts it was given.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrInvalidMaxAttempts is returned when a probe is asked for fewer than one attempt.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
