package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
// Nested keys are separated by a double underscore:
// SKILLMATCH_SERVER__PORT sets server.port.
const EnvPrefix = "SKILLMATCH_"

// ConfigPathEnvVar names the environment variable that points at a YAML file
// when no path is passed to Load.
const ConfigPathEnvVar = "SKILLMATCH_CONFIG"

// DefaultConfigPaths lists the paths searched, in order, when neither an
// explicit path nor ConfigPathEnvVar is given.
var DefaultConfigPaths = []string{
	"skillmatch.yaml",
	"skillmatch.yml",
	"/etc/skillmatch/config.yaml",
}

// Load builds a Config from layered sources:
//  1. Defaults
//  2. YAML file: path, else $SKILLMATCH_CONFIG, else the first of DefaultConfigPaths that exists
//  3. envFiles, loaded with godotenv; missing files are skipped and existing
//     environment variables are never overwritten
//  4. SKILLMATCH_* environment variables
//
// The result is validated before it is returned.
func Load(path string, envFiles ...string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath returns the YAML file to load, or "" for none.
// An explicitly named file must exist; default locations are optional.
func resolveConfigPath(path string) (string, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

func loadEnvFiles(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// sliceConfigPaths lists keys that environment variables supply as
// comma-separated strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated string values of slice keys.
// Values that are already slices (from YAML or defaults) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf paths.
//
// Examples:
//   - SKILLMATCH_SERVER__PORT -> server.port
//   - SKILLMATCH_EMBEDDING__API_KEY -> embedding.api_key
//   - SKILLMATCH_RECOMMEND__THRESHOLD -> recommend.threshold
//
// SKILLMATCH_CONFIG is the file path itself and is skipped.
func envTransformFunc(key string) string {
	if key == ConfigPathEnvVar {
		return ""
	}
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}
