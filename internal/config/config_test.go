package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(500*1024), cfg.MaxFileSize)
	assert.Equal(t, 300, cfg.ChunkSizeLines)
	assert.Equal(t, 5, cfg.ContextLines)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mrbot.yaml")
	content := []byte("chunk_size_lines: 120\ncontext_lines: 3\ngithub:\n  repo: acme/widgets\nrules:\n  critical:\n    - \"(^|/)infra/\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.ChunkSizeLines)
	assert.Equal(t, 3, cfg.ContextLines)
	assert.Equal(t, "acme/widgets", cfg.GitHub.Repo)
	assert.Equal(t, []string{"(^|/)infra/"}, cfg.Rules.Critical)
	// untouched fields keep defaults
	assert.Equal(t, int64(500*1024), cfg.MaxFileSize)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.ChunkSizeLines)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MRBOT_CHUNK_SIZE_LINES", "150")
	t.Setenv("MRBOT_GITHUB_TOKEN", "tok123")
	t.Setenv("MRBOT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 150, cfg.ChunkSizeLines)
	assert.Equal(t, "tok123", cfg.GitHub.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidChunkConfig(t *testing.T) {
	t.Setenv("MRBOT_CHUNK_SIZE_LINES", "0")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("MRBOT_CHUNK_SIZE_LINES", "300")
	t.Setenv("MRBOT_CONTEXT_LINES", "-2")
	_, err = Load("")
	require.Error(t, err)
}
