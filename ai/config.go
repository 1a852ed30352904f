// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names an embedding implementation.
type Backend string

const (
	// BackendOpenAI talks to any OpenAI-compatible /v1/embeddings endpoint.
	BackendOpenAI Backend = "openai"
	// BackendGemini uses the Google Gemini embedding API.
	BackendGemini Backend = "gemini"
	// BackendSBERT runs sentence-transformers in local Python worker processes.
	BackendSBERT Backend = "sbert"
	// BackendMock uses deterministic in-process vectors. Not for production.
	BackendMock Backend = "mock"
)

// Backends lists every supported backend.
var Backends = []Backend{BackendOpenAI, BackendGemini, BackendSBERT, BackendMock}

// Config holds configuration for embedding providers.
type Config struct {
	// Backend selects the embedding implementation.
	// Default: openai
	Backend Backend

	// Host is the base URL for the embedding service API.
	// Only used by the openai backend.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	Host string

	// Model is the embedding model identifier.
	// Example: "all-minilm" (Ollama), "all-MiniLM-L6-v2" (sbert), "text-embedding-004" (gemini)
	Model string

	// APIKey authenticates against hosted services. Local OpenAI-compatible
	// servers ignore it.
	APIKey string

	// Python is the interpreter used by the sbert backend.
	// Default: python3
	Python string

	// Workers is the number of sbert worker processes.
	// Default: 1
	Workers int

	// BatchSize is the largest number of texts sent to the backend in one call.
	// Larger batches are split and embedded concurrently.
	// Default: 64
	BatchSize int

	// PoolSize bounds how many split batches are in flight at once.
	// Default: 4
	PoolSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend sets the embedding backend.
func WithBackend(backend Backend) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the API key for hosted services.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithPython sets the Python interpreter used by the sbert backend.
func WithPython(python string) ConfigOption {
	return func(c *Config) {
		c.Python = python
	}
}

// WithWorkers sets the number of sbert worker processes.
func WithWorkers(n int) ConfigOption {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithBatchSize sets the maximum number of texts per backend call.
func WithBatchSize(n int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = n
	}
}

// WithPoolSize sets how many split batches may be embedded concurrently.
func WithPoolSize(n int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = n
	}
}

// DefaultConfig returns a Config for a local Ollama server serving
// all-MiniLM-L6-v2 under its Ollama name.
func DefaultConfig() *Config {
	return &Config{
		Backend:   BackendOpenAI,
		Host:      "http://localhost:11434/v1",
		Model:     "all-minilm",
		Python:    "python3",
		Workers:   1,
		BatchSize: 64,
		PoolSize:  4,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:8080"),
//	    WithModel("sentence-transformers/all-MiniLM-L6-v2"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// For the openai backend it adds the /v1 suffix to Host if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Backend = Backend(strings.ToLower(strings.TrimSpace(string(c.Backend))))

	if c.Backend == BackendOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	known := false
	for _, b := range Backends {
		if c.Backend == b {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("ai config: unknown Backend %q", c.Backend)
	}

	if c.Backend == BackendOpenAI && c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Backend == BackendGemini && c.APIKey == "" {
		return errors.New("ai config: APIKey is required for the gemini backend")
	}
	if c.Backend == BackendSBERT && c.Python == "" {
		return errors.New("ai config: Python is required for the sbert backend")
	}
	if c.Backend != BackendMock && c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Workers < 1 {
		return errors.New("ai config: Workers must be at least 1")
	}
	if c.BatchSize < 1 {
		return errors.New("ai config: BatchSize must be at least 1")
	}
	if c.PoolSize < 1 {
		return errors.New("ai config: PoolSize must be at least 1")
	}
	return nil
}
