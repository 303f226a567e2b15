package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "github.com/declbridge/declbridge", cfg.RootPath)
	assert.Equal(t, "declbridge_gen.go", cfg.GeneratedFile)
	assert.False(t, cfg.Log.JSON)
}

func TestEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("DECLBRIDGE_ROOT_PATH", "example.com/custom/bridgerun")
	t.Setenv("DECLBRIDGE_LOG_JSON", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "example.com/custom/bridgerun", cfg.RootPath)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadCaches(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
root_path = "example.com/other/runtime"
generated_file = "bridges_gen.go"

[log]
json = true
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com/other/runtime", cfg.RootPath)
	assert.Equal(t, "bridges_gen.go", cfg.GeneratedFile)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
