package recommend

import (
	"time"

	"github.com/poiesic/skillmatch/core"
)

// EmbeddingKind distinguishes the two embedding calls of a request.
type EmbeddingKind string

const (
	EmbeddingSession    EmbeddingKind = "session"
	EmbeddingCandidates EmbeddingKind = "candidates"
)

// Monitor provides hooks to observe a recommendation.
// Implement this interface to track intermediate steps and results.
// Hooks run synchronously on the request goroutine.
type Monitor interface {
	Start(session core.Session, candidates int)
	AfterNormalize(sessionText string, interestTexts []string)
	AfterEmbedding(kind EmbeddingKind, texts int, elapsed time.Duration, err error)
	Scored(candidateID string, score float64, accepted bool)
	Finish(recommended []string, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Session, _ int)                                     {}
func (n *noopMonitor) AfterNormalize(_ string, _ []string)                             {}
func (n *noopMonitor) AfterEmbedding(_ EmbeddingKind, _ int, _ time.Duration, _ error) {}
func (n *noopMonitor) Scored(_ string, _ float64, _ bool)                              {}
func (n *noopMonitor) Finish(_ []string, _ error)                                      {}

// Monitors fans hooks out to several monitors in order.
type Monitors []Monitor

var _ Monitor = Monitors(nil)

func (ms Monitors) Start(session core.Session, candidates int) {
	for _, m := range ms {
		m.Start(session, candidates)
	}
}

func (ms Monitors) AfterNormalize(sessionText string, interestTexts []string) {
	for _, m := range ms {
		m.AfterNormalize(sessionText, interestTexts)
	}
}

func (ms Monitors) AfterEmbedding(kind EmbeddingKind, texts int, elapsed time.Duration, err error) {
	for _, m := range ms {
		m.AfterEmbedding(kind, texts, elapsed, err)
	}
}

func (ms Monitors) Scored(candidateID string, score float64, accepted bool) {
	for _, m := range ms {
		m.Scored(candidateID, score, accepted)
	}
}

func (ms Monitors) Finish(recommended []string, err error) {
	for _, m := range ms {
		m.Finish(recommended, err)
	}
}
