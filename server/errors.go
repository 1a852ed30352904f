package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeRequestTooLarge     = "REQUEST_TOO_LARGE"
	CodeEmbeddingFailed     = "EMBEDDING_FAILED"
	CodeEmbedderUnavailable = "EMBEDDER_UNAVAILABLE"
	CodeRequestTimeout      = "REQUEST_TIMEOUT"
	CodeRequestCanceled     = "REQUEST_CANCELED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusClientClosedRequest is reported when the client goes away before a
// response is ready.
const StatusClientClosedRequest = 499

// classify maps an error from decoding or recommending onto a status code,
// error code and client-safe message.
func classify(err error) (int, string, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "request body too large"
	case errors.Is(err, core.ErrInvalidCandidate):
		return http.StatusBadRequest, CodeValidationError, err.Error()
	case errors.Is(err, core.ErrInvalidRequest):
		return http.StatusBadRequest, CodeInvalidRequest, err.Error()
	case errors.Is(err, ai.ErrEmbedderUnavailable):
		return http.StatusServiceUnavailable, CodeEmbedderUnavailable, "embedding backend is unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeRequestTimeout, "timed out computing recommendations"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, CodeRequestCanceled, "request canceled"
	default:
		return http.StatusInternalServerError, CodeEmbeddingFailed, "failed to compute recommendations"
	}
}

// writeError writes err as an ErrorResponse. Server-side failures are logged
// with the underlying error; client errors are logged at debug.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code, message := classify(err)

	attrs := []any{"code", code, "err", err, "request_id", RequestIDFromContext(r.Context())}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Debug("request rejected", attrs...)
	}

	writeErrorCode(w, status, code, message)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Type: "error", Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
