package mock

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
)

// TopicEmbedder is a bag-of-words ai.Embedder over a fixed set of topics.
// Each topic owns one vector dimension; every word of the input that belongs
// to a topic adds one to that dimension. Texts with no topic words embed to
// the zero vector.
//
// It makes semantic assertions in tests predictable: texts sharing a topic
// score 1.0 against each other and texts on disjoint topics score 0.
type TopicEmbedder struct {
	topics    []string
	wordTopic map[string]int
	callCount atomic.Int64
}

// NewTopicEmbedder builds an embedder from topic name to keywords.
// Keywords are matched case-insensitively against whitespace-separated words.
func NewTopicEmbedder(topics map[string][]string) *TopicEmbedder {
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)

	wordTopic := make(map[string]int)
	for i, name := range names {
		for _, word := range topics[name] {
			wordTopic[strings.ToLower(word)] = i
		}
	}

	return &TopicEmbedder{topics: names, wordTopic: wordTopic}
}

// Dimension returns the vector size, one per topic.
func (e *TopicEmbedder) Dimension() int {
	return len(e.topics)
}

// EmbedText embeds a single text.
func (e *TopicEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	e.callCount.Add(1)
	return e.embed(text), nil
}

// EmbedTexts embeds texts in order.
func (e *TopicEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.callCount.Add(1)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.embed(text)
	}
	return out, nil
}

// CallCount returns the number of times any method was called.
func (e *TopicEmbedder) CallCount() int {
	return int(e.callCount.Load())
}

func (e *TopicEmbedder) embed(text string) []float32 {
	vec := make([]float32, len(e.topics))
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if i, ok := e.wordTopic[word]; ok {
			vec[i]++
		}
	}
	return vec
}
