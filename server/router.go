package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/skillmatch/config"
	"github.com/poiesic/skillmatch/recommend"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ErrRecommenderRequired is returned when a recommender is not provided.
	ErrRecommenderRequired = errors.New("recommender required")

	// ErrReadinessRequired is returned when a readiness check is not provided.
	ErrReadinessRequired = errors.New("readiness check required")
)

// Option configures the router.
type Option func(*Handlers) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// NewRouter builds the HTTP handler for the API.
func NewRouter(cfg config.ServerConfig, recommender *recommend.Recommender, ready ReadinessFunc, opts ...Option) (http.Handler, error) {
	if recommender == nil {
		return nil, ErrRecommenderRequired
	}
	if ready == nil {
		return nil, ErrReadinessRequired
	}

	h := &Handlers{
		recommender:    recommender,
		ready:          ready,
		requestTimeout: cfg.RequestTimeout,
		maxBodyBytes:   cfg.MaxBodyBytes,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	h.logger = h.logger.With("component", "http")
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = 1 << 20
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorCode(w, http.StatusNotFound, CodeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorCode(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/recommend-users", h.Recommend)
	})

	return r, nil
}
