package metrics

import (
	"time"

	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/recommend"
)

// Monitor records recommendation activity into the package collectors.
// It holds no state and is safe for concurrent use.
type Monitor struct{}

var _ recommend.Monitor = Monitor{}

// NewMonitor returns a recommend.Monitor backed by Prometheus collectors.
func NewMonitor() Monitor {
	return Monitor{}
}

func (Monitor) Start(_ core.Session, _ int) {}

func (Monitor) AfterNormalize(_ string, _ []string) {}

func (Monitor) AfterEmbedding(kind recommend.EmbeddingKind, texts int, elapsed time.Duration, err error) {
	RecordEmbedding(string(kind), texts, elapsed, err)
}

func (Monitor) Scored(_ string, score float64, accepted bool) {
	CandidatesScored.Inc()
	SimilarityScore.Observe(score)
	if accepted {
		CandidatesRecommended.Inc()
	}
}

func (Monitor) Finish(_ []string, err error) {
	if err != nil {
		RecommendationsFailed.Inc()
	}
}
