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


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/poiesic/skillmatch"
	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/config"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/metrics"
	"github.com/poiesic/skillmatch/recommend"
	"github.com/poiesic/skillmatch/server"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "skillmatch",
		Usage: "Recommend users for a session by semantic similarity of their interests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Set log output format (text, json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{config.ConfigPathEnvVar},
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Load environment overrides from a .env file (repeatable)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP recommendation service",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Interface to listen on",
					},
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on",
					},
				}, embeddingFlags()...),
			},
			{
				Name:   "score",
				Usage:  "Score one recommendation request read from a file or stdin",
				Action: scoreCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Request JSON file, or - for stdin",
						Value:   "-",
					},
					&cli.BoolFlag{
						Name:  "scores",
						Usage: "Print every candidate with its similarity score",
					},
				}, embeddingFlags()...),
			},
			{
				Name:   "probe",
				Usage:  "Check that the embedding backend answers and print its dimension",
				Action: probeCommand,
				Flags:  embeddingFlags(),
			},
		},
	}
}

// embeddingFlags are shared by every command that builds a recommender.
// Unset flags leave the loaded configuration untouched.
func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:    "threshold",
			Aliases: []string{"t"},
			Usage:   "Minimum cosine similarity for a user to be recommended",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Embedding backend (openai, gemini, sbert, mock)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (openai backend)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := openService(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	logger := slog.Default()
	dim, err := svc.Probe(ctx, cfg.Embedding.ProbeAttempts, cfg.Embedding.ProbeDelay)
	if err != nil {
		return fmt.Errorf("embedding backend not ready: %w", err)
	}
	logger.Info("embedding backend ready",
		"backend", cfg.Embedding.Backend,
		"model", cfg.Embedding.Model,
		"dimension", dim)

	router, err := server.NewRouter(cfg.Server, svc.Recommender(), server.ProbeReadiness(svc.Embedder()),
		server.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	handler := &sutureslog.Handler{Logger: logger}
	root := suture.New("skillmatch", suture.Spec{
		EventHook: handler.MustHook(),
		Timeout:   cfg.Server.ShutdownTimeout,
	})
	root.Add(server.NewService(cfg.Server, router, logger))

	if err := root.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor stopped: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func scoreCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	body, err := readInput(c.String("input"), c.App.Reader)
	if err != nil {
		return err
	}
	req, err := core.DecodeRecommendRequest(body)
	if err != nil {
		return err
	}

	ctx := c.Context
	svc, err := openService(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	scores, err := svc.Recommender().ScoreAll(ctx, req.Session, req.Candidates)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if c.Bool("scores") {
		return enc.Encode(scores)
	}

	resp := core.RecommendResponse{RecommendedUserIDs: make([]string, 0, len(scores))}
	for _, s := range scores {
		if s.Accepted {
			resp.RecommendedUserIDs = append(resp.RecommendedUserIDs, s.ID)
		}
	}
	return enc.Encode(resp)
}

func probeCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	svc, err := openService(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	dim, err := svc.Probe(ctx, cfg.Embedding.ProbeAttempts, cfg.Embedding.ProbeDelay)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Backend: %s\n", cfg.Embedding.Backend)
	fmt.Fprintf(c.App.Writer, "Model: %s\n", cfg.Embedding.Model)
	fmt.Fprintf(c.App.Writer, "Dimension: %d\n", dim)
	return nil
}

// loadConfig layers command-line flags over the file and environment
// configuration, validates the result and reconfigures logging from it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"), c.StringSlice("env-file")...)
	if err != nil {
		return nil, err
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = strings.ToLower(c.String("log-level"))
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = strings.ToLower(c.String("log-format"))
	}
	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("threshold") {
		cfg.Recommend.Threshold = c.Float64("threshold")
	}
	if c.IsSet("backend") {
		cfg.Embedding.Backend = strings.ToLower(c.String("backend"))
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format, c.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return cfg, nil
}

// openService opens the configured backend and builds the recommender on it.
// The breaker and metrics monitor are only wired for the long-running server.
func openService(ctx context.Context, cfg *config.Config, serving bool) (*skillmatch.Service, error) {
	provider, err := skillmatch.NewProvider(ctx, cfg.AIConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding backend: %w", err)
	}

	recOpts := []recommend.Option{recommend.WithThreshold(cfg.Recommend.Threshold)}
	opts := []skillmatch.ServiceOption{
		skillmatch.WithParallelism(cfg.Embedding.BatchSize, cfg.Embedding.PoolSize),
	}
	if serving {
		recOpts = append(recOpts, recommend.WithMonitor(metrics.NewMonitor()))
		opts = append(opts, skillmatch.WithBreaker(ai.BreakerSettings{
			Name:                cfg.Embedding.Backend,
			ConsecutiveFailures: uint32(cfg.Embedding.BreakerFailures),
			Timeout:             cfg.Embedding.BreakerTimeout,
			OnStateChange:       metrics.RecordBreakerState,
		}))
	}
	opts = append(opts, skillmatch.WithRecommendOptions(recOpts...))

	svc, err := skillmatch.NewService(provider, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func setupLogger(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"), c.String("log-format"), c.App.ErrWriter)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func newLogger(levelStr, format string, w io.Writer) (*slog.Logger, error) {
	// Normalize to lowercase
	levelStr = strings.ToLower(levelStr)

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: must be one of text, json", format)
	}
}
