// Package refresh keeps a catalogue store in sync with its knowledge-base
// source.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

const (
	// DefaultSchedule refreshes the catalogue every 30 minutes.
	DefaultSchedule = "@every 30m"

	// ReleasesURL is where new client releases are published.
	ReleasesURL = "https://github.com/d07RiV/ShrineTips/releases"

	// fileDebounce coalesces the burst of events an editor save produces.
	fileDebounce = 200 * time.Millisecond
)

// ErrAlreadyStarted is returned by Start when the service is running.
var ErrAlreadyStarted = errors.New("refresh: already started")

// Service reloads a catalogue store from a Source, on demand, on a
// schedule, and (for file sources) when the file changes.
type Service struct {
	source Source
	store  *catalogue.Store
	log    *slog.Logger

	onReload []func(*catalogue.Catalogue)
	onUpdate []func(version int)
	onError  []func(error)

	reloadMu sync.Mutex // serializes reloads
	known    int        // highest knowledge-base version announced so far

	mu      sync.Mutex
	cron    *cron.Cron
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a logger for reload outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithClientVersion sets the release the client was built from. A
// knowledge base with a higher version triggers the update hooks once per
// new version.
func WithClientVersion(version int) Option {
	return func(s *Service) {
		s.known = version
	}
}

// OnReload registers a hook run after every successful reload.
func OnReload(fn func(*catalogue.Catalogue)) Option {
	return func(s *Service) {
		if fn != nil {
			s.onReload = append(s.onReload, fn)
		}
	}
}

// OnUpdateAvailable registers a hook run when a newer release is announced.
func OnUpdateAvailable(fn func(version int)) Option {
	return func(s *Service) {
		if fn != nil {
			s.onUpdate = append(s.onUpdate, fn)
		}
	}
}

// OnError registers a hook run after every failed reload.
func OnError(fn func(error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.onError = append(s.onError, fn)
		}
	}
}

// New creates a Service publishing into store.
func New(source Source, store *catalogue.Store, opts ...Option) *Service {
	s := &Service{
		source: source,
		store:  store,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Reload fetches, decodes and builds a new catalogue, then publishes it.
// On any failure the published catalogue is left in place.
func (s *Service) Reload(ctx context.Context) (*catalogue.Catalogue, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cat, err := s.reload(ctx)
	if err != nil {
		s.log.Warn("catalogue reload failed", "source", s.source.String(), "error", err)
		for _, fn := range s.onError {
			fn(err)
		}
		return nil, err
	}

	s.log.Info("catalogue reloaded",
		"source", s.source.String(),
		"version", cat.Version(),
		"effects", cat.Len(),
		"matchers", len(cat.Matchers()),
		"skipped", len(cat.Skipped()))
	for _, fn := range s.onReload {
		fn(cat)
	}
	s.checkVersion(cat.Version())
	return cat, nil
}

func (s *Service) reload(ctx context.Context) (*catalogue.Catalogue, error) {
	data, format, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := catalogue.LoadBytes(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode knowledge base: %w", err)
	}
	return s.store.Rebuild(tree)
}

func (s *Service) checkVersion(version int) {
	if version <= s.known {
		return
	}
	s.known = version
	s.log.Info("new release available", "version", version, "url", ReleasesURL)
	for _, fn := range s.onUpdate {
		fn(version)
	}
}

// Start schedules periodic reloads using a cron spec (for example
// "@every 30m" or "*/30 * * * *") and, for a *FileSource, reloads when the
// file changes. An empty spec disables the schedule. Start does not perform
// an initial reload. A stopped service cannot be started again.
func (s *Service) Start(ctx context.Context, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	var c *cron.Cron
	if spec != "" {
		c = cron.New()
		if _, err := c.AddFunc(spec, func() { _, _ = s.Reload(ctx) }); err != nil {
			cancel()
			return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
		}
	}

	var w *fsnotify.Watcher
	if fs, ok := s.source.(*FileSource); ok {
		var err error
		w, err = watchFile(fs.Path)
		if err != nil {
			cancel()
			return err
		}
	}

	s.cron = c
	s.watcher = w
	s.cancel = cancel
	s.done = make(chan struct{})

	if c != nil {
		c.Start()
		s.log.Debug("scheduled catalogue refresh", "schedule", spec)
	}
	go s.run(ctx, w, s.done)
	return nil
}

// Stop stops scheduled and file-triggered reloads and waits for a running
// reload to finish. Safe to call multiple times.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done, c, w := s.cancel, s.done, s.cron, s.watcher
	s.cancel, s.cron, s.watcher = nil, nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if c != nil {
		<-c.Stop().Done()
	}
	if w != nil {
		_ = w.Close()
	}
	<-done
}

func watchFile(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch knowledge base directory: %w", err)
	}
	return w, nil
}

func (s *Service) run(ctx context.Context, w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	if w == nil {
		<-ctx.Done()
		return
	}

	target := filepath.Clean(s.source.(*FileSource).Path)
	debounce := time.NewTimer(fileDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(fileDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("knowledge base file watch error", "error", err)
		case <-debounce.C:
			s.log.Debug("knowledge base file changed", "path", target)
			_, _ = s.Reload(ctx)
		}
	}
}
