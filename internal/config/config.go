package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	EnvLogLevel = "TREEVERIFY_LOG_LEVEL"
	EnvWorkers  = "TREEVERIFY_WORKERS"
)

type Config struct {
	Manifest  string
	Root      string
	Workers   int
	ChunkSize int
	Timeout   time.Duration
	Strict    bool
	Algorithm string
	LogLevel  string
	Progress  bool
}

func Default() Config {
	return Config{
		Workers:   8,
		ChunkSize: 64 << 10,
		Algorithm: "SHA256",
		LogLevel:  "info",
	}
}

type fileConfig struct {
	Manifest  string `toml:"manifest"`
	Root      string `toml:"root"`
	Workers   int    `toml:"workers"`
	ChunkSize int    `toml:"chunk_size"`
	Timeout   string `toml:"timeout"`
	Strict    bool   `toml:"strict"`
	Algorithm string `toml:"algorithm"`
	LogLevel  string `toml:"log_level"`
	Progress  bool   `toml:"progress"`
}

// Load overlays the keys present in the TOML file at path onto Default().
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("manifest") {
		cfg.Manifest = strings.TrimSpace(raw.Manifest)
	}
	if meta.IsDefined("root") {
		cfg.Root = strings.TrimSpace(raw.Root)
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("chunk_size") {
		cfg.ChunkSize = raw.ChunkSize
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("algorithm") {
		cfg.Algorithm = strings.TrimSpace(raw.Algorithm)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("progress") {
		cfg.Progress = raw.Progress
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TREEVERIFY_* variables. Empty values are ignored.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be > 0, got %d", c.ChunkSize)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if strings.TrimSpace(c.Algorithm) == "" {
		return fmt.Errorf("algorithm must be specified")
	}
	return nil
}
