// Package config loads tableagent configuration from defaults, an
// optional YAML config file, and environment variables.
//
// Precedence (highest to lowest): env vars > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the name of the config file.
const FileName = "tableagent.yaml"

// FileNameAlt is the alternate name of the config file.
const FileNameAlt = "tableagent.yml"

// envPrefix namespaces the environment variables read by Load,
// e.g. TABLEAGENT_PROVIDER, TABLEAGENT_MODEL, TABLEAGENT_API_KEY.
const envPrefix = "TABLEAGENT_"

// Config holds all runtime configuration options.
type Config struct {
	Provider   string `koanf:"provider"`
	Model      string `koanf:"model"`
	APIKey     string `koanf:"api_key"`
	MaxRetries int    `koanf:"max_retries"`
	RowLimit   int    `koanf:"row_limit"`
	Format     string `koanf:"format"`
	Plain      bool   `koanf:"plain"`
}

// Load reads configuration from defaults, the config file (explicit path,
// or the first of tableagent.yaml in the working directory and
// ~/.config/tableagent/), and TABLEAGENT_* environment variables.
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"provider":    "",
		"model":       "",
		"api_key":     "",
		"max_retries": 3,
		"row_limit":   50,
		"format":      "table",
		"plain":       false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	path := cfgFile
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns the path of the first config file found, or ""
// when none exists. The working directory wins over the user config dir.
func findConfigFile() string {
	candidates := []string{FileName, FileNameAlt}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "tableagent")
		candidates = append(candidates,
			filepath.Join(dir, FileName),
			filepath.Join(dir, FileNameAlt),
		)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
