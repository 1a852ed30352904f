package sbert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/skillmatch/ai"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("sbert: embedder closed")

// Embedder implements ai.Embedder on a fixed pool of encoder workers.
type Embedder struct {
	idle   chan *worker
	start  startFunc
	size   int
	dim    int
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// newEmbedder starts size workers. Any startup failure stops the ones
// already running.
func newEmbedder(ctx context.Context, size int, start startFunc, logger *slog.Logger) (*Embedder, error) {
	if size < 1 {
		size = 1
	}

	e := &Embedder{
		idle:   make(chan *worker, size),
		start:  start,
		size:   size,
		logger: logger,
		done:   make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		w, err := start(ctx, i)
		if err != nil {
			_ = e.Close()
			return nil, err
		}
		if e.dim == 0 {
			e.dim = w.dim
		} else if w.dim != e.dim {
			_ = w.close()
			_ = e.Close()
			return nil, fmt.Errorf("worker %d reports dimension %d, expected %d", i, w.dim, e.dim)
		}
		e.idle <- w
	}

	logger.Info("encoder workers ready", "workers", size, "dim", e.dim)
	return e, nil
}

// Dimension returns the vector size reported by the workers.
func (e *Embedder) Dimension() int {
	return e.dim
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedTexts borrows an idle worker and embeds texts in one batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	w, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}

	vecs, err := w.encode(ctx, texts)
	if err != nil && !isEncodeError(err) {
		e.logger.Warn("encoder worker failed, replacing", "worker", w.id, "err", err)
		_ = w.close()
		e.replace(w.id)
		return nil, err
	}
	e.release(w)

	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ai.ErrEmbeddingCountMismatch, len(vecs), len(texts))
	}
	return vecs, nil
}

func (e *Embedder) acquire(ctx context.Context) (*worker, error) {
	select {
	case <-e.done:
		return nil, ErrClosed
	default:
	}

	select {
	case w := <-e.idle:
		return w, nil
	case <-e.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Embedder) release(w *worker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		_ = w.close()
		return
	}
	e.idle <- w
}

// replace starts a new worker in the background so a crashed process does
// not permanently shrink the pool.
func (e *Embedder) replace(id int) {
	go func() {
		w, err := e.start(context.Background(), id)
		if err != nil {
			e.logger.Error("failed to restart encoder worker", "worker", id, "err", err)
			return
		}
		e.release(w)
	}()
}

// Close stops every idle worker. Workers in use are stopped when returned.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	close(e.done)

	for {
		select {
		case w := <-e.idle:
			_ = w.close()
		default:
			return nil
		}
	}
}

var _ ai.Embedder = (*Embedder)(nil)
