package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/recommend"
)

// ReadinessFunc reports whether the embedding backend can serve requests and
// returns its vector dimension.
type ReadinessFunc func(ctx context.Context) (int, error)

// ProbeReadiness returns a ReadinessFunc that embeds a probe text once.
func ProbeReadiness(embedder ai.Embedder) ReadinessFunc {
	return func(ctx context.Context) (int, error) {
		return ai.Probe(ctx, embedder, 1, 0)
	}
}

// Handlers serves the API routes.
type Handlers struct {
	recommender    *recommend.Recommender
	ready          ReadinessFunc
	requestTimeout time.Duration
	maxBodyBytes   int64
	logger         *slog.Logger
}

type healthResponse struct {
	Status    string `json:"status"`
	Dimension int    `json:"dimension,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Recommend handles POST /recommend-users.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	req, err := core.DecodeRecommendRequest(body)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	ids, err := h.recommender.Recommend(ctx, req.Session, req.Candidates)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, core.RecommendResponse{RecommendedUserIDs: ids})
}

// Live handles GET /health/live.
func (h *Handlers) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Ready handles GET /health/ready.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	dim, err := h.ready(ctx)
	if err != nil {
		h.logger.Warn("readiness probe failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready", Dimension: dim})
}
