package shrinetips

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

// WatchOption configures a Watcher using the functional options pattern.
type WatchOption func(*watchConfig)

type watchConfig struct {
	path        string
	store       *catalogue.Store
	filter      *RarityFilter
	fromStart   bool
	poll        bool
	flushDelay  time.Duration // idle time after which a pending item is emitted
	includeText bool
	logger      *slog.Logger
}

func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		flushDelay: 500 * time.Millisecond,
	}
}

func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *watchConfig) validate() error {
	if c.path == "" {
		return ErrNoFile
	}
	if c.flushDelay <= 0 {
		return fmt.Errorf("flush delay must be positive, got %v", c.flushDelay)
	}
	return nil
}

// WithFile sets the item file to follow. Required.
func WithFile(path string) WatchOption {
	return func(c *watchConfig) {
		c.path = path
	}
}

// WithStore sets the catalogue store items are matched against. The store's
// current catalogue is loaded for every item, so reloads take effect
// immediately. Without a store every line is reported as unknown.
func WithStore(s *catalogue.Store) WatchOption {
	return func(c *watchConfig) {
		c.store = s
	}
}

// WithRarities only emits items of the given rarities.
// Default: every rarity.
func WithRarities(rarities ...string) WatchOption {
	return func(c *watchConfig) {
		c.filter = NewRarityFilter(rarities...)
	}
}

// WithFromStart classifies the items already in the file before following
// new ones. Default: false (tail -f behavior).
func WithFromStart(fromStart bool) WatchOption {
	return func(c *watchConfig) {
		c.fromStart = fromStart
	}
}

// WithPolling polls the file for changes instead of using change
// notifications.
func WithPolling(poll bool) WatchOption {
	return func(c *watchConfig) {
		c.poll = poll
	}
}

// WithFlushDelay sets how long the watcher waits for more lines before
// treating a pending item as complete. Default: 500ms.
func WithFlushDelay(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.flushDelay = d
	}
}

// WithIncludeText includes the item text in Result.Text.
// Default: false.
func WithIncludeText(include bool) WatchOption {
	return func(c *watchConfig) {
		c.includeText = include
	}
}

// WithLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}
