// Package config loads casefile settings from defaults, an optional YAML or
// TOML file, an optional .env file, and CASEFILE_* environment variables,
// in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/casefile/logging"
)

// DefaultMaxPasses bounds the re-evaluation loop when nothing else is set.
const DefaultMaxPasses = 128

// DefaultChannel is the Redis channel status events are published to.
const DefaultChannel = "casefile:events"

// Config is the full runtime configuration.
type Config struct {
	Log    logging.Config `yaml:"log" toml:"log"`
	Engine EngineConfig   `yaml:"engine" toml:"engine"`
	Notify NotifyConfig   `yaml:"notify" toml:"notify"`
}

type EngineConfig struct {
	MaxPasses int `yaml:"max_passes" toml:"max_passes"`
}

// NotifyConfig enables the Redis event publisher when RedisURL is set.
type NotifyConfig struct {
	RedisURL string `yaml:"redis_url" toml:"redis_url"`
	Channel  string `yaml:"channel" toml:"channel"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: logging.Config{
			Level:          "warn",
			Format:         "text",
			Console:        true,
			FileMaxSizeMB:  10,
			FileMaxBackups: 5,
			FileMaxAgeDays: 30,
		},
		Engine: EngineConfig{MaxPasses: DefaultMaxPasses},
		Notify: NotifyConfig{Channel: DefaultChannel},
	}
}

// Load builds a Config. An empty path skips the file layer; a missing .env in
// the working directory is not an error.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("config %s: unsupported format (want .yaml, .yml or .toml)", path)
	}
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("CASEFILE_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv("CASEFILE_LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := os.LookupEnv("CASEFILE_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := os.LookupEnv("CASEFILE_MAX_PASSES"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("CASEFILE_MAX_PASSES: %w", err)
		}
		cfg.Engine.MaxPasses = n
	}
	if v, ok := os.LookupEnv("CASEFILE_REDIS_URL"); ok {
		cfg.Notify.RedisURL = v
	}
	if v, ok := os.LookupEnv("CASEFILE_REDIS_CHANNEL"); ok {
		cfg.Notify.Channel = v
	}
	return nil
}

// Validate checks values no layer can sensibly default.
func (c *Config) Validate() error {
	if c.Engine.MaxPasses <= 0 {
		return fmt.Errorf("engine.max_passes must be positive, got %d", c.Engine.MaxPasses)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Notify.RedisURL != "" && c.Notify.Channel == "" {
		return errors.New("notify.channel is required when notify.redis_url is set")
	}
	return nil
}
