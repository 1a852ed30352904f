package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/skillmatch/ai"
	"google.golang.org/genai"
)

// Embedder wraps a genai.Client to implement ai.Embedder.
type Embedder struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

// NewEmbedder creates a Gemini embedder from an existing client.
// modelName is the embedding model to use (e.g., "text-embedding-004").
func NewEmbedder(client *genai.Client, modelName string) *Embedder {
	return &Embedder{
		client:    client,
		modelName: modelName,
		logger:    slog.Default().With("component", "gemini-embedder", "model", modelName),
	}
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in one call.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		// The API rejects empty parts
		if text == "" {
			text = " "
		}
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	result, err := e.client.Models.EmbedContent(ctx, e.modelName, contents, &genai.EmbedContentConfig{})
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ai.ErrEmbeddingCountMismatch, len(result.Embeddings), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("empty embedding vector at index %d", i)
		}
		vecs[i] = emb.Values
	}
	return vecs, nil
}

var _ ai.Embedder = (*Embedder)(nil)
