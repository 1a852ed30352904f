package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
)

// DefaultThreshold is the minimum similarity for a candidate to be recommended.
const DefaultThreshold = 0.1

// Recommender selects candidates whose interests are similar to a session.
type Recommender struct {
	embedder  ai.Embedder
	threshold float64
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures a Recommender.
type Option func(*Recommender) error

// WithThreshold sets the inclusive similarity cut-off.
// Default is DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(r *Recommender) error {
		if math.IsNaN(threshold) || threshold < -1 || threshold > 1 {
			return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
		}
		r.threshold = threshold
		return nil
	}
}

// WithMonitor sets a monitor that observes every recommendation.
func WithMonitor(monitor Monitor) Option {
	return func(r *Recommender) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recommender) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRecommender creates a recommender around an embedder.
func NewRecommender(embedder ai.Embedder, opts ...Option) (*Recommender, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Recommender{
		embedder:  embedder,
		threshold: DefaultThreshold,
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "recommender")

	return r, nil
}

// Threshold returns the configured similarity cut-off.
func (r *Recommender) Threshold() float64 {
	return r.threshold
}

// Recommend returns the IDs of candidates scoring at least the threshold,
// in input order. An empty candidate list returns an empty slice without
// calling the embedder.
func (r *Recommender) Recommend(ctx context.Context, session core.Session, candidates []core.Candidate) ([]string, error) {
	return r.RecommendWithMonitor(ctx, session, candidates, nil)
}

// RecommendWithMonitor is Recommend with an extra per-call monitor, invoked
// after the recommender's own.
func (r *Recommender) RecommendWithMonitor(ctx context.Context, session core.Session, candidates []core.Candidate, monitor Monitor) ([]string, error) {
	scores, err := r.scoreAll(ctx, session, candidates, r.monitorFor(monitor))
	if err != nil {
		return nil, err
	}

	return acceptedIDs(scores), nil
}

// ScoreAll runs the same pipeline as Recommend but returns every candidate
// with its score and whether it met the threshold.
func (r *Recommender) ScoreAll(ctx context.Context, session core.Session, candidates []core.Candidate) ([]core.CandidateScore, error) {
	return r.scoreAll(ctx, session, candidates, r.monitor)
}

func (r *Recommender) monitorFor(extra Monitor) Monitor {
	if extra == nil {
		return r.monitor
	}
	return Monitors{r.monitor, extra}
}

func (r *Recommender) scoreAll(ctx context.Context, session core.Session, candidates []core.Candidate, monitor Monitor) (scores []core.CandidateScore, err error) {
	start := time.Now()
	monitor.Start(session, len(candidates))
	defer func() {
		monitor.Finish(acceptedIDs(scores), err)
	}()

	if err := core.ValidateRequest(&core.RecommendRequest{Session: session, Candidates: candidates}); err != nil {
		return nil, err
	}

	sessionText := core.SessionText(session)
	interestTexts := make([]string, len(candidates))
	for i := range candidates {
		interestTexts[i] = core.InterestText(candidates[i])
	}
	monitor.AfterNormalize(sessionText, interestTexts)

	if len(candidates) == 0 {
		return []core.CandidateScore{}, nil
	}

	logger := r.logger.With("session", core.Fingerprint(sessionText), "candidates", len(candidates))

	embedStart := time.Now()
	sessionVec, err := r.embedder.EmbedText(ctx, sessionText)
	monitor.AfterEmbedding(EmbeddingSession, 1, time.Since(embedStart), err)
	if err != nil {
		logger.Error("failed to embed session text", "err", err)
		return nil, err
	}

	embedStart = time.Now()
	candidateVecs, err := r.embedder.EmbedTexts(ctx, interestTexts)
	monitor.AfterEmbedding(EmbeddingCandidates, len(interestTexts), time.Since(embedStart), err)
	if err != nil {
		logger.Error("failed to embed candidate interests", "err", err)
		return nil, err
	}

	if len(candidateVecs) != len(candidates) {
		err := fmt.Errorf("%w: got %d vectors for %d candidates", ErrEmbeddingMismatch, len(candidateVecs), len(candidates))
		logger.Error("embedder returned wrong number of vectors", "err", err)
		return nil, err
	}

	scores = make([]core.CandidateScore, len(candidates))
	for i, vec := range candidateVecs {
		if len(vec) != len(sessionVec) {
			err := fmt.Errorf("%w: candidate %q vector has %d dimensions, session has %d",
				ErrEmbeddingMismatch, candidates[i].ID, len(vec), len(sessionVec))
			logger.Error("embedder returned vectors of differing length", "err", err)
			return nil, err
		}

		score := CosineSimilarity(sessionVec, vec)
		accepted := score >= r.threshold
		scores[i] = core.CandidateScore{ID: candidates[i].ID, Score: score, Accepted: accepted}
		monitor.Scored(candidates[i].ID, score, accepted)
	}

	logger.Debug("scored candidates",
		"recommended", len(acceptedIDs(scores)),
		"threshold", r.threshold,
		"elapsed", time.Since(start))
	return scores, nil
}

func acceptedIDs(scores []core.CandidateScore) []string {
	ids := make([]string, 0, len(scores))
	for _, s := range scores {
		if s.Accepted {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
