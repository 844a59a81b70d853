package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix starts every environment override
	EnvPrefix = "PORTCONGESTION_"

	// ConfigPathEnvVar overrides the config file location
	ConfigPathEnvVar = EnvPrefix + "CONFIG"
)

// DefaultConfigPaths are searched in order when ConfigPathEnvVar is unset
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// sections lists the top-level keys. Env names map onto the longest match,
// so PORTCONGESTION_WAITING_TIME_BASE_URL becomes waiting_time.base_url.
var sections = []string{"waiting_time", "voyages", "pipeline", "database", "log"}

// Load reads the configuration from the first config file found, if any
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile reads defaults, then path (skipped if empty), then the environment
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps PORTCONGESTION_SECTION_KEY to section.key.
// Unknown sections return "" and are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, s := range sections {
		if rest, ok := strings.CutPrefix(key, s+"_"); ok && rest != "" {
			return s + "." + rest
		}
	}
	return ""
}
