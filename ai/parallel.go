package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// ParallelEmbedder splits large batches into chunks of at most batchSize
// texts and embeds the chunks concurrently on a bounded worker pool.
// Output order always matches input order.
type ParallelEmbedder struct {
	next      Embedder
	batchSize int
	pool      *ants.Pool
	logger    *slog.Logger
}

// NewParallelEmbedder wraps next. poolSize bounds the number of chunks in flight.
// Call Release when done to stop the pool.
func NewParallelEmbedder(next Embedder, batchSize, poolSize int) (*ParallelEmbedder, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &ParallelEmbedder{
		next:      next,
		batchSize: batchSize,
		pool:      pool,
		logger:    slog.Default().With("component", "parallel-embedder"),
	}, nil
}

// EmbedText passes a single text straight through.
func (p *ParallelEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return p.next.EmbedText(ctx, text)
}

// EmbedTexts generates vector embeddings for multiple text strings, chunking
// as needed. The first chunk error cancels the remaining chunks.
func (p *ParallelEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) <= p.batchSize {
		return p.next.EmbedTexts(ctx, texts)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]float32, len(texts))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	chunks := 0
	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end
		chunks++

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				fail(ctx.Err())
				return
			}
			vecs, err := p.next.EmbedTexts(ctx, texts[start:end])
			if err != nil {
				fail(err)
				return
			}
			if len(vecs) != end-start {
				fail(fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingCountMismatch, len(vecs), end-start))
				return
			}
			copy(results[start:end], vecs)
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		p.logger.Error("failed to embed chunked batch", "count", len(texts), "chunks", chunks, "err", firstErr)
		return nil, firstErr
	}
	p.logger.Debug("embedded chunked batch", "count", len(texts), "chunks", chunks)
	return results, nil
}

// Release stops the worker pool.
func (p *ParallelEmbedder) Release() {
	p.pool.Release()
}
