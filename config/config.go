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


// Package config loads Skillmatch settings from defaults, an optional YAML
// file, .env files and SKILLMATCH_ environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/recommend"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Recommend RecommendConfig `koanf:"recommend"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	RequestTimeout    time.Duration `koanf:"request_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes" validate:"gt=0"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"` // 0 disables rate limiting
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RecommendConfig controls candidate selection.
type RecommendConfig struct {
	Threshold float64 `koanf:"threshold" validate:"gte=-1,lte=1"`
}

// EmbeddingConfig selects and tunes the embedding backend.
type EmbeddingConfig struct {
	Backend         string        `koanf:"backend" validate:"oneof=openai gemini sbert mock"`
	Host            string        `koanf:"host"`
	Model           string        `koanf:"model"`
	APIKey          string        `koanf:"api_key"`
	Python          string        `koanf:"python"`
	Workers         int           `koanf:"workers" validate:"min=1"`
	BatchSize       int           `koanf:"batch_size" validate:"min=1"`
	PoolSize        int           `koanf:"pool_size" validate:"min=1"`
	BreakerFailures int           `koanf:"breaker_failures" validate:"min=1"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
	ProbeAttempts   int           `koanf:"probe_attempts" validate:"min=1"`
	ProbeDelay      time.Duration `koanf:"probe_delay" validate:"gt=0"`
}

// LogConfig controls the default slog handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              5002,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			RequestTimeout:    20 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			MaxBodyBytes:      1 << 20, // 1MB
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"*"},
		},
		Recommend: RecommendConfig{
			Threshold: recommend.DefaultThreshold,
		},
		Embedding: EmbeddingConfig{
			Backend:         string(aiDefaults.Backend),
			Host:            aiDefaults.Host,
			Model:           aiDefaults.Model,
			Python:          aiDefaults.Python,
			Workers:         aiDefaults.Workers,
			BatchSize:       aiDefaults.BatchSize,
			PoolSize:        aiDefaults.PoolSize,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			ProbeAttempts:   5,
			ProbeDelay:      500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// AIConfig converts the embedding section to an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	e := c.Embedding
	return ai.NewConfig(
		ai.WithBackend(ai.Backend(e.Backend)),
		ai.WithHost(e.Host),
		ai.WithModel(e.Model),
		ai.WithAPIKey(e.APIKey),
		ai.WithPython(e.Python),
		ai.WithWorkers(e.Workers),
		ai.WithBatchSize(e.BatchSize),
		ai.WithPoolSize(e.PoolSize),
	)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and that the embedding section forms a
// usable ai.Config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s fails %q (value %v)", fe.Namespace(), fe.ActualTag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}

	if err := c.AIConfig().Validate(); err != nil {
		return fmt.Errorf("config: embedding: %w", err)
	}
	return nil
}
