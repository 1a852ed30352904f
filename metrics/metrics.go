package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillmatch_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillmatch_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmatch_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Embedding Metrics
	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillmatch_embedding_duration_seconds",
			Help:    "Duration of embedding calls in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"}, // "session", "candidates"
	)

	EmbeddingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmatch_embedding_errors_total",
			Help: "Total number of failed embedding calls",
		},
		[]string{"kind"},
	)

	EmbeddedTexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmatch_embedded_texts_total",
			Help: "Total number of texts sent to the embedder",
		},
		[]string{"kind"},
	)

	// Recommendation Metrics
	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillmatch_candidates_scored_total",
			Help: "Total number of candidates scored against a session",
		},
	)

	CandidatesRecommended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillmatch_candidates_recommended_total",
			Help: "Total number of candidates meeting the similarity threshold",
		},
	)

	SimilarityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillmatch_similarity_score",
			Help:    "Distribution of session to candidate cosine similarity",
			Buckets: prometheus.LinearBuckets(-1, 0.1, 21),
		},
	)

	RecommendationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillmatch_recommendations_failed_total",
			Help: "Total number of recommendation requests that returned an error",
		},
	)

	// Circuit Breaker Metrics
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skillmatch_embedder_breaker_state",
			Help: "Embedder circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmatch_embedder_breaker_transitions_total",
			Help: "Total number of embedder circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordEmbedding records one embedding call of the given kind.
func RecordEmbedding(kind string, texts int, duration time.Duration, err error) {
	EmbeddingDuration.WithLabelValues(kind).Observe(duration.Seconds())
	EmbeddedTexts.WithLabelValues(kind).Add(float64(texts))
	if err != nil {
		EmbeddingErrors.WithLabelValues(kind).Inc()
	}
}

// RecordBreakerState records a circuit breaker transition.
func RecordBreakerState(name, from, to string) {
	BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	BreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// breakerStateValue converts circuit breaker state to numeric value for metrics
func breakerStateValue(state string) float64 {
	switch state {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
