package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/shrinetips/shrinetips-go/internal/safefile"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SHRINETIPS_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/shrinetips/config.yaml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "shrinetips", "config.yaml"), nil
}

// Load loads configuration from defaults, then a YAML file, then
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SHRINETIPS_CATALOGUE_URL, SHRINETIPS_SERVER_PORT, ...)
//  2. YAML config file
//  3. Defaults
//
// An explicit path must exist. With an empty path the default location is
// used if present.
//
// Environment variables map onto keys by splitting at the first underscore
// after the prefix:
//
//	SHRINETIPS_CATALOGUE_URL -> catalogue.url
//	SHRINETIPS_SERVER_RELOAD_PER_MINUTE -> server.reload_per_minute
//	SHRINETIPS_CLIENT_RARITIES=rare,magic -> client.rarities
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	content, err := safefile.ReadFile(path, maxConfigFileSize)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, safefile.ErrEmpty):
		// An empty file means defaults.
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file at the default location.
	default:
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// Environment lists arrive as one comma-separated string.
	cfg.Client.Rarities = splitList(cfg.Client.Rarities)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps SHRINETIPS_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// splitList splits comma-separated elements and drops empty ones.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
