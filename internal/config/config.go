// Package config loads shrinetips settings from defaults, a YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds the complete shrinetips configuration.
type Config struct {
	Catalogue CatalogueConfig `koanf:"catalogue"`
	Client    ClientConfig    `koanf:"client"`
	Server    ServerConfig    `koanf:"server"`
}

// CatalogueConfig selects and refreshes the knowledge base.
type CatalogueConfig struct {
	URL     string        `koanf:"url"`     // published knowledge base
	Path    string        `koanf:"path"`    // local file; overrides URL and is watched for changes
	Refresh string        `koanf:"refresh"` // cron spec, "" disables periodic refresh
	Timeout time.Duration `koanf:"timeout"` // per-download timeout
}

// ClientConfig holds client-side behavior.
type ClientConfig struct {
	Version  int      `koanf:"version"`  // local release, compared against the knowledge-base version
	Rarities []string `koanf:"rarities"` // item rarities to classify, empty for all
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	ReloadPerMinute int    `koanf:"reload_per_minute"` // POST /api/v1/reload budget, 0 disables the endpoint
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Defaults mirror the published client.
const (
	DefaultURL             = "http://poe.rivsoft.net/shrines/shrines.js"
	DefaultRefresh         = "@every 30m"
	DefaultTimeout         = 15 * time.Second
	DefaultClientVersion   = 102
	DefaultHost            = "localhost"
	DefaultPort            = 8787
	DefaultReloadPerMinute = 6
)

// defaults returns the default values keyed by koanf path.
func defaults() map[string]any {
	return map[string]any{
		"catalogue.url":            DefaultURL,
		"catalogue.path":           "",
		"catalogue.refresh":        DefaultRefresh,
		"catalogue.timeout":        DefaultTimeout.String(),
		"client.version":           DefaultClientVersion,
		"client.rarities":          []string{"rare", "magic"},
		"server.host":              DefaultHost,
		"server.port":              DefaultPort,
		"server.reload_per_minute": DefaultReloadPerMinute,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Catalogue.URL == "" && c.Catalogue.Path == "" {
		errs = append(errs, errors.New("catalogue.url or catalogue.path is required"))
	}
	if c.Catalogue.Refresh != "" {
		if _, err := cron.ParseStandard(c.Catalogue.Refresh); err != nil {
			errs = append(errs, fmt.Errorf("catalogue.refresh %q: %w", c.Catalogue.Refresh, err))
		}
	}
	if c.Catalogue.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("catalogue.timeout must be positive, got %v", c.Catalogue.Timeout))
	}
	if c.Client.Version < 0 {
		errs = append(errs, fmt.Errorf("client.version must be non-negative, got %d", c.Client.Version))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReloadPerMinute < 0 {
		errs = append(errs, fmt.Errorf("server.reload_per_minute must be non-negative, got %d", c.Server.ReloadPerMinute))
	}

	return errors.Join(errs...)
}
