package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tableagent/tableagent/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Provider)
	assert.Equal(t, "", cfg.Model)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 50, cfg.RowLimit)
	assert.Equal(t, "table", cfg.Format)
	assert.False(t, cfg.Plain)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
provider: anthropic
model: claude-sonnet-4-20250514
max_retries: 5
row_limit: 100
format: csv
plain: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 100, cfg.RowLimit)
	assert.Equal(t, "csv", cfg.Format)
	assert.True(t, cfg.Plain)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TABLEAGENT_PROVIDER", "gemini")
	t.Setenv("TABLEAGENT_ROW_LIMIT", "25")

	path := writeConfig(t, "provider: openai\nrow_limit: 100\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 25, cfg.RowLimit)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "provider: [unclosed\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}
