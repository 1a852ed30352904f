package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/ai/mock"
	"github.com/poiesic/skillmatch/config"
	"github.com/poiesic/skillmatch/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicEmbedder() *mock.TopicEmbedder {
	return mock.NewTopicEmbedder(map[string][]string{
		"outdoors": {"hiking", "hike", "trip", "camping", "outdoors", "nature", "weekend"},
		"finance":  {"accounting", "tax", "law"},
	})
}

func testServerConfig() config.ServerConfig {
	cfg := config.Default().Server
	cfg.RateLimitRequests = 0
	return cfg
}

func newTestRouter(t *testing.T, embedder ai.Embedder, cfg config.ServerConfig) http.Handler {
	t.Helper()
	rec, err := recommend.NewRecommender(embedder)
	require.NoError(t, err)
	router, err := NewRouter(cfg, rec, ProbeReadiness(embedder))
	require.NoError(t, err)
	return router
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Type)
	return resp
}

func TestNewRouter_RequiresDependencies(t *testing.T) {
	rec, err := recommend.NewRecommender(mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = NewRouter(testServerConfig(), nil, ProbeReadiness(mock.NewMockEmbedder()))
	assert.Equal(t, ErrRecommenderRequired, err)

	_, err = NewRouter(testServerConfig(), rec, nil)
	assert.Equal(t, ErrReadinessRequired, err)
}

func TestRecommendUsers_HikingVersusAccounting(t *testing.T) {
	h := newTestRouter(t, topicEmbedder(), testServerConfig())

	rec := do(t, h, http.MethodPost, "/recommend-users", `{
		"title": "Hiking Trip",
		"description": "Weekend hike",
		"hashtags": ["outdoors", "nature"],
		"users": [
			{"_id": "u1", "desiredSkills": ["hiking", "camping"]},
			{"_id": "u2", "desiredSkills": ["accounting", "tax law"]}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"recommendedUserIds": ["u1"]}`, rec.Body.String())
}

func TestRecommendUsers_EmptyUsers(t *testing.T) {
	m := mock.NewMockEmbedder()
	h := newTestRouter(t, m, testServerConfig())

	for _, body := range []string{
		`{"title": "Anything", "users": []}`,
		`{"title": "Anything"}`,
		`{"users": null}`,
		`{}`,
	} {
		rec := do(t, h, http.MethodPost, "/recommend-users", body)
		require.Equal(t, http.StatusOK, rec.Code, body)
		assert.JSONEq(t, `{"recommendedUserIds": []}`, rec.Body.String(), body)
	}
	assert.Equal(t, 0, m.CallCount())
}

func TestRecommendUsers_LenientSessionFields(t *testing.T) {
	h := newTestRouter(t, topicEmbedder(), testServerConfig())

	rec := do(t, h, http.MethodPost, "/recommend-users", `{
		"title": 42,
		"description": null,
		"hashtags": "hiking",
		"users": [{"_id": "u1", "desiredSkills": "not-a-list"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"recommendedUserIds": []}`, rec.Body.String())
}

func TestRecommendUsers_BadRequests(t *testing.T) {
	h := newTestRouter(t, mock.NewMockEmbedder(), testServerConfig())

	tests := []struct {
		name string
		body string
		code string
	}{
		{"not json", `{"title":`, CodeInvalidRequest},
		{"empty body", ``, CodeInvalidRequest},
		{"array body", `[]`, CodeInvalidRequest},
		{"users not an array", `{"users": "u1"}`, CodeInvalidRequest},
		{"users a number", `{"users": 3}`, CodeInvalidRequest},
		{"user not an object", `{"users": ["u1"]}`, CodeInvalidRequest},
		{"missing id", `{"users": [{"desiredSkills": ["go"]}]}`, CodeValidationError},
		{"empty id", `{"users": [{"_id": ""}]}`, CodeValidationError},
		{"numeric id", `{"users": [{"_id": 7}]}`, CodeValidationError},
		{"duplicate id", `{"users": [{"_id": "a"}, {"_id": "a"}]}`, CodeValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/recommend-users", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestRecommendUsers_BodyTooLarge(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxBodyBytes = 64
	h := newTestRouter(t, mock.NewMockEmbedder(), cfg)

	rec := do(t, h, http.MethodPost, "/recommend-users", `{"title": "`+strings.Repeat("x", 200)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, CodeRequestTooLarge, decodeError(t, rec).Code)
}

func TestRecommendUsers_EmbedderFailure(t *testing.T) {
	m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused: secret-host:11434")
	})
	h := newTestRouter(t, m, testServerConfig())

	rec := do(t, h, http.MethodPost, "/recommend-users", `{"users": [{"_id": "u1"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, CodeEmbeddingFailed, resp.Code)
	assert.NotContains(t, resp.Message, "secret-host", "backend details are not exposed")
}

func TestRecommendUsers_BreakerOpen(t *testing.T) {
	m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("down")
	})
	b := ai.NewBreakerEmbedder(m, ai.BreakerSettings{ConsecutiveFailures: 1, Timeout: time.Hour})
	h := newTestRouter(t, b, testServerConfig())

	body := `{"users": [{"_id": "u1"}]}`
	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodPost, "/recommend-users", body).Code)

	rec := do(t, h, http.MethodPost, "/recommend-users", body)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, CodeEmbedderUnavailable, decodeError(t, rec).Code)
}

func TestRecommendUsers_Timeout(t *testing.T) {
	m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := testServerConfig()
	cfg.RequestTimeout = 20 * time.Millisecond
	h := newTestRouter(t, m, cfg)

	rec := do(t, h, http.MethodPost, "/recommend-users", `{"users": [{"_id": "u1"}]}`)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, CodeRequestTimeout, decodeError(t, rec).Code)
}

func TestRecommendUsers_ClientCanceled(t *testing.T) {
	m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	h := newTestRouter(t, m, testServerConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/recommend-users", strings.NewReader(`{"users": [{"_id": "u1"}]}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, StatusClientClosedRequest, rec.Code)
	assert.Equal(t, CodeRequestCanceled, decodeError(t, rec).Code)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("embed: %w", context.Canceled), StatusClientClosedRequest, CodeRequestCanceled},
		{fmt.Errorf("embed: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeRequestTimeout},
		{fmt.Errorf("embed: %w", ai.ErrEmbedderUnavailable), http.StatusServiceUnavailable, CodeEmbedderUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, CodeEmbeddingFailed},
	}
	for _, tt := range tests {
		status, code, _ := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestRouting(t *testing.T) {
	h := newTestRouter(t, mock.NewMockEmbedder(), testServerConfig())

	rec := do(t, h, http.MethodGet, "/recommend-users", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, CodeMethodNotAllowed, decodeError(t, rec).Code)

	rec = do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decodeError(t, rec).Code)
}

func TestRequestID(t *testing.T) {
	h := newTestRouter(t, mock.NewMockEmbedder(), testServerConfig())

	rec := do(t, h, http.MethodGet, "/health/live", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36, "generated UUID")

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestHealth(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		h := newTestRouter(t, mock.NewMockEmbedder(), testServerConfig())
		rec := do(t, h, http.MethodGet, "/health/live", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		h := newTestRouter(t, mock.NewMockEmbedder(), testServerConfig())
		rec := do(t, h, http.MethodGet, "/health/ready", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status": "ready", "dimension": 384}`, rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("model loading")
		})
		h := newTestRouter(t, m, testServerConfig())
		rec := do(t, h, http.MethodGet, "/health/ready", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "unavailable")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, mock.NewMockEmbedder(), testServerConfig())
	do(t, h, http.MethodGet, "/health/live", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `skillmatch_api_requests_total{endpoint="/health/live",method="GET",status_code="200"}`)
}

func TestRateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	h := newTestRouter(t, mock.NewMockEmbedder(), cfg)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/recommend-users", `{}`).Code)
	}
	rec := do(t, h, http.MethodPost, "/recommend-users", `{}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, decodeError(t, rec).Code)

	// health checks are not rate limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/live", "").Code)
}

func TestCORS(t *testing.T) {
	cfg := testServerConfig()
	cfg.CORSOrigins = []string{"https://app.example"}
	h := newTestRouter(t, mock.NewMockEmbedder(), cfg)

	req := httptest.NewRequest(http.MethodOptions, "/recommend-users", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestService_ServeAndShutdown(t *testing.T) {
	cfg := testServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	svc := NewService(cfg, newTestRouter(t, mock.NewMockEmbedder(), cfg), nil)
	assert.Equal(t, "http-server", svc.String())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	var addr string
	select {
	case a := <-svc.Listening():
		addr = a.String()
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/health/live")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status": "ok"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
