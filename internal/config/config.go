// Package config loads the optional dotpipe.yaml file the CLI reads its
// defaults from.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "dotpipe.yaml"

// Config carries the CLI defaults. Flags override anything set here.
type Config struct {
	// Listen is the HTTP listen address for `serve`, e.g. ":8080".
	Listen string `yaml:"listen" json:"listen"`
	// Page is the path of the page definition file to load.
	Page string `yaml:"page" json:"page"`
	// Redis configures the optional scope store.
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig is the scope store section.
type RedisConfig struct {
	Address  string `yaml:"address" json:"address"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	// TTLSeconds bounds how long persisted scopes live. Zero keeps them.
	TTLSeconds int `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{Listen: ":8080"}
}

// Load reads a configuration file (YAML or JSON). A missing file at the
// default path is not an error and yields the defaults; a missing file at
// an explicitly requested path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
