package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigYAML = ".stagehand.yml"
	defaultConfigTOML = ".stagehand.toml"
)

// Config is the top-level stagehand configuration.
type Config struct {
	Version   int             `yaml:"version" toml:"version"`
	Checkout  CheckoutConfig  `yaml:"checkout" toml:"checkout"`
	Test      TestConfig      `yaml:"test" toml:"test"`
	Coverage  CoverageConfig  `yaml:"coverage" toml:"coverage"`
	Workspace WorkspaceConfig `yaml:"workspace" toml:"workspace"`
}

// Load reads configuration from a YAML or TOML file, chosen by extension.
// If path is empty, it tries the default files in order.
// Returns sensible defaults if no file exists.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, candidate := range []string{defaultConfigYAML, defaultConfigTOML} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return defaults(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if filepath.Ext(path) == ".toml" {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Version:   1,
		Checkout:  DefaultCheckoutConfig(),
		Test:      DefaultTestConfig(),
		Coverage:  DefaultCoverageConfig(),
		Workspace: DefaultWorkspaceConfig(),
	}
}
