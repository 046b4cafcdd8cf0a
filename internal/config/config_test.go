package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "vi {file}", cfg.OpenCommand)
	require.Equal(t, "main", cfg.BaseBranch)
	require.Contains(t, cfg.IgnoredDirs, "node_modules")
	require.Contains(t, cfg.IgnoredPatterns, ".min.js")
	require.Equal(t, 2000, cfg.MaxContentResults)
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
open_command = "code --goto {file}:{line}"
base_branch = "develop"
ignored_dirs = ["out"]
max_content_results = 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewConfigService().LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "code --goto {file}:{line}", cfg.OpenCommand)
	require.Equal(t, "develop", cfg.BaseBranch)
	require.Equal(t, []string{"out"}, cfg.IgnoredDirs)
	require.Equal(t, 500, cfg.MaxContentResults)
}

func TestLoadFromPathFillsDefaultsForOmittedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_branch = "trunk"`), 0o644))

	cfg, err := NewConfigService().LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "trunk", cfg.BaseBranch)
	require.Equal(t, "vi {file}", cfg.OpenCommand)
	require.NotEmpty(t, cfg.IgnoredDirs)
	require.Equal(t, 2000, cfg.MaxContentResults)
}

func TestLoadFromPathMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("open_command = [not toml"), 0o644))

	_, err := NewConfigService().LoadFromPath(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := NewConfigService().LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
