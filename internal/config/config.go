// Package config provides configuration loading for mrbot.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/chipkajb/mr-bot/internal/chunk"
)

// Config holds every tunable for a run. It is loaded once and treated as
// read-only by the pipeline.
type Config struct {
	// MaxFileSize is the byte ceiling above which bulk-data diffs are
	// skipped rather than reviewed.
	MaxFileSize int64 `koanf:"max_file_size"`
	// ChunkSizeLines is the maximum number of diff lines per chunk.
	ChunkSizeLines int `koanf:"chunk_size_lines"`
	// ContextLines is the overlap copied across chunk boundaries.
	ContextLines int `koanf:"context_lines"`
	// OutputDir is where review artifacts are written.
	OutputDir string `koanf:"output_dir"`
	// Workers bounds parallel file processing; 0 means one per CPU.
	Workers int `koanf:"workers"`

	Log    LogConfig    `koanf:"log"`
	GitHub GitHubConfig `koanf:"github"`
	Rules  RulesConfig  `koanf:"rules"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
}

// GitHubConfig configures the pull request source.
type GitHubConfig struct {
	Token   string `koanf:"token"`
	BaseURL string `koanf:"base_url"` // enterprise instance, empty for github.com
	Repo    string `koanf:"repo"`     // owner/name
}

// RulesConfig holds extra classification patterns layered on the built-ins.
type RulesConfig struct {
	Skip     []string `koanf:"skip"`
	Critical []string `koanf:"critical"`
	Low      []string `koanf:"low"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxFileSize:    500 * 1024,
		ChunkSizeLines: 300,
		ContextLines:   5,
		OutputDir:      "./output",
		Log:            LogConfig{Level: "info", Format: "console"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if it
// exists; an empty path skips the file layer), then MRBOT_* environment
// variables. The result is validated before being returned.
//
// Environment variables map to fields by lowercasing and sectioning on the
// first underscore of a known section:
//
//	MRBOT_CHUNK_SIZE_LINES -> chunk_size_lines
//	MRBOT_GITHUB_TOKEN     -> github.token
//	MRBOT_LOG_LEVEL        -> log.level
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("MRBOT_", ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "MRBOT_"))
	for _, sec := range []string{"github", "log", "rules"} {
		if strings.HasPrefix(s, sec+"_") {
			return sec + "." + strings.TrimPrefix(s, sec+"_")
		}
	}
	return s
}

// Validate rejects misconfiguration before any file is processed.
func (c Config) Validate() error {
	if err := chunk.Validate(c.ChunkSizeLines, c.ContextLines); err != nil {
		return err
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative, got %d", c.MaxFileSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
