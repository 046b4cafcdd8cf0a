package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	// OpenCommand is the editor invocation template used when a file is
	// opened. "{file}" and "{line}" placeholders are substituted; if no
	// placeholder is present the path is appended as the last argument.
	OpenCommand string `toml:"open_command"`

	// BaseBranch is the reference the changed-from-base filter diffs against.
	BaseBranch string `toml:"base_branch"`

	// IgnoredDirs are directory names excluded from every walk, on top of
	// any .gitignore rules.
	IgnoredDirs []string `toml:"ignored_dirs"`

	// IgnoredPatterns are filename substrings excluded from every walk.
	IgnoredPatterns []string `toml:"ignored_patterns"`

	// MaxContentResults caps content search output; 0 means the default.
	MaxContentResults int `toml:"max_content_results"`
}

// ConfigService handles configuration loading
type ConfigService interface {
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
}

type configService struct {
	filePath string
}

// NewConfigService creates a config service reading from the user config dir
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "glancr", "config.toml"),
	}
}

// Load loads the configuration, falling back to defaults when the file is
// absent. A present-but-malformed file is an error.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.OpenCommand == "" {
		c.OpenCommand = d.OpenCommand
	}
	if c.BaseBranch == "" {
		c.BaseBranch = d.BaseBranch
	}
	if c.IgnoredDirs == nil {
		c.IgnoredDirs = d.IgnoredDirs
	}
	if c.IgnoredPatterns == nil {
		c.IgnoredPatterns = d.IgnoredPatterns
	}
	if c.MaxContentResults <= 0 {
		c.MaxContentResults = d.MaxContentResults
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		OpenCommand: "vi {file}",
		BaseBranch:  "main",
		IgnoredDirs: []string{
			"node_modules", "target", "dist", "build",
			".idea", ".vscode", "vendor", ".next", "coverage", ".yarn",
		},
		IgnoredPatterns: []string{
			".lock", ".log", ".map", ".min.js", ".min.css", ".bundle.", ".cache",
		},
		MaxContentResults: 2000,
	}
}
