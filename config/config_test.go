package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/skillmatch/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points Load away from any config file in the working directory.
func isolate(t *testing.T) {
	t.Helper()
	orig := DefaultConfigPaths
	DefaultConfigPaths = nil
	t.Cleanup(func() { DefaultConfigPaths = orig })
	t.Setenv(ConfigPathEnvVar, "")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5002, cfg.Server.Port)
	assert.Equal(t, 0.1, cfg.Recommend.Threshold)
	assert.Equal(t, "openai", cfg.Embedding.Backend)
	assert.Equal(t, "all-minilm", cfg.Embedding.Model)
	assert.Equal(t, "0.0.0.0:5002", cfg.Server.Addr())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "skillmatch.yaml", `
server:
  port: 9090
  request_timeout: 5s
  cors_origins:
    - https://example.com
recommend:
  threshold: 0.35
embedding:
  backend: sbert
  model: all-MiniLM-L6-v2
  workers: 2
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 0.35, cfg.Recommend.Threshold)
	assert.Equal(t, "sbert", cfg.Embedding.Backend)
	assert.Equal(t, 2, cfg.Embedding.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep defaults
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	isolate(t)
	path := writeFile(t, "c.yaml", "server:\n  port: 7070\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "c.yaml", "server:\n  port: 7070\nrecommend:\n  threshold: 0.2\n")
	t.Setenv("SKILLMATCH_SERVER__PORT", "6060")
	t.Setenv("SKILLMATCH_EMBEDDING__API_KEY", "secret")
	t.Setenv("SKILLMATCH_SERVER__RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, 0.2, cfg.Recommend.Threshold)
	assert.Equal(t, "secret", cfg.Embedding.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Server.RateLimitWindow)
}

func TestLoad_CORSOriginsFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SKILLMATCH_SERVER__CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)
	dotenv := writeFile(t, ".env", "SKILLMATCH_RECOMMEND__THRESHOLD=0.42\nSKILLMATCH_LOG__FORMAT=json\n")
	// godotenv sets real process env; register for cleanup first
	t.Setenv("SKILLMATCH_RECOMMEND__THRESHOLD", "")
	t.Setenv("SKILLMATCH_LOG__FORMAT", "")
	require.NoError(t, os.Unsetenv("SKILLMATCH_RECOMMEND__THRESHOLD"))
	require.NoError(t, os.Unsetenv("SKILLMATCH_LOG__FORMAT"))

	cfg, err := Load("", dotenv, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 0.42, cfg.Recommend.Threshold)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_DotEnvDoesNotOverrideEnv(t *testing.T) {
	isolate(t)
	dotenv := writeFile(t, ".env", "SKILLMATCH_SERVER__PORT=1111\n")
	t.Setenv("SKILLMATCH_SERVER__PORT", "2222")

	cfg, err := Load("", dotenv)
	require.NoError(t, err)
	assert.Equal(t, 2222, cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"threshold too high", "SKILLMATCH_RECOMMEND__THRESHOLD", "1.5"},
		{"port out of range", "SKILLMATCH_SERVER__PORT", "70000"},
		{"unknown backend", "SKILLMATCH_EMBEDDING__BACKEND", "word2vec"},
		{"bad log level", "SKILLMATCH_LOG__LEVEL", "verbose"},
		{"zero workers", "SKILLMATCH_EMBEDDING__WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestValidate_GeminiNeedsKey(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Backend = "gemini"
	assert.Error(t, cfg.Validate())

	cfg.Embedding.APIKey = "k"
	assert.NoError(t, cfg.Validate())
}

func TestAIConfig(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Backend = "sbert"
	cfg.Embedding.Workers = 3

	aiCfg := cfg.AIConfig()
	assert.Equal(t, ai.BackendSBERT, aiCfg.Backend)
	assert.Equal(t, 3, aiCfg.Workers)
	assert.Equal(t, cfg.Embedding.Model, aiCfg.Model)
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "server.port", envTransformFunc("SKILLMATCH_SERVER__PORT"))
	assert.Equal(t, "embedding.api_key", envTransformFunc("SKILLMATCH_EMBEDDING__API_KEY"))
	assert.Equal(t, "", envTransformFunc("SKILLMATCH_CONFIG"))
}
