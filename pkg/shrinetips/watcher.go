package shrinetips

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shrinetips/shrinetips-go/internal/tailer"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

// watcherErrBuffer is the buffer size for the error channel.
const watcherErrBuffer = 16

// Result is one classified item.
type Result struct {
	Tip     *Tip    `json:"tip"`
	Groups  []Group `json:"groups"`
	Version int     `json:"version"`        // knowledge-base version used for matching
	Text    string  `json:"text,omitempty"` // set with WithIncludeText
}

// Watcher follows a text file and classifies every item appended to it.
type Watcher struct {
	cfg   watchConfig // immutable after creation
	store *catalogue.Store
	log   *slog.Logger

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc
	doneCh   chan struct{}
	watching bool
}

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewWatcherWithOptions creates a watcher using functional options.
// Does NOT start goroutines (cheap to call).
//
// Example:
//
//	watcher, err := shrinetips.NewWatcherWithOptions(
//	    shrinetips.WithFile("items.txt"),
//	    shrinetips.WithStore(store),
//	    shrinetips.WithRarities("rare", "magic"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, errs, err := watcher.Watch(ctx)
func NewWatcherWithOptions(opts ...WatchOption) (*Watcher, error) {
	cfg := applyWatchOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}
	store := cfg.store
	if store == nil {
		store = &catalogue.Store{}
	}

	return &Watcher{
		cfg:   *cfg,
		store: store,
		log:   log,
	}, nil
}

// WatchWithOptions creates a watcher using functional options and starts
// watching. The watcher stops when ctx is cancelled; use
// NewWatcherWithOptions and Watcher.Close for synchronous shutdown.
func WatchWithOptions(ctx context.Context, opts ...WatchOption) (<-chan Result, <-chan error, error) {
	w, err := NewWatcherWithOptions(opts...)
	if err != nil {
		return nil, nil, err
	}
	return w.Watch(ctx)
}

// Watch starts following the file and returns channels.
// An item ends when a "Rarity:" line starts the next one, or when no line
// arrives within the flush delay. Blank lines do not end an item.
// Both channels close on ctx.Done(), Close, or when the file can no longer
// be followed. Watch can only be called once per Watcher instance.
//
// Items that are not item descriptions are reported on the error channel
// as *WatchError wrapping ErrNotTooltip; items filtered by rarity are
// dropped silently.
func (w *Watcher) Watch(ctx context.Context) (<-chan Result, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	resultCh := make(chan Result)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, resultCh, errCh)

	return resultCh, errCh, nil
}

// Close stops the watcher and releases resources.
// Safe to call multiple times. Blocks until the goroutine has exited.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, resultCh chan<- Result, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(resultCh)
	defer close(errCh)

	cfg := tailer.DefaultConfig()
	cfg.FromStart = w.cfg.fromStart
	cfg.Poll = w.cfg.poll

	t, err := tailer.New(ctx, w.cfg.path, cfg)
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: w.cfg.path, Err: err})
		return
	}
	defer func() { _ = t.Stop() }()
	w.log.Debug("started tailing", "path", w.cfg.path, "from_start", cfg.FromStart)

	var split blockSplitter
	errs := t.Errors()
	idle := time.NewTimer(w.cfg.flushDelay)
	idle.Stop()
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				if text, ok := split.flush(); ok {
					w.processItem(ctx, text, resultCh, errCh)
				}
				return
			}
			if text, ok := split.feed(line); ok {
				w.processItem(ctx, text, resultCh, errCh)
			}
			if split.pending() {
				idle.Reset(w.cfg.flushDelay)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			sendError(ctx, errCh, &WatchError{Op: WatchOpRead, Path: w.cfg.path, Err: err})
		case <-idle.C:
			if text, ok := split.flush(); ok {
				w.processItem(ctx, text, resultCh, errCh)
			}
		}
	}
}

func (w *Watcher) processItem(ctx context.Context, text string, resultCh chan<- Result, errCh chan<- error) {
	t, err := Parse(text)
	if err != nil {
		w.log.Debug("skipping non-item text", "error", err)
		sendError(ctx, errCh, &WatchError{Op: WatchOpParse, Err: err})
		return
	}
	if !w.cfg.filter.Allows(t.Rarity) {
		w.log.Debug("skipping item by rarity", "name", t.Name, "rarity", t.Rarity)
		return
	}

	cat := w.store.Load()
	res := Result{
		Tip:     t,
		Groups:  Match(t, cat),
		Version: cat.Version(),
	}
	if w.cfg.includeText {
		res.Text = text
	}

	select {
	case resultCh <- res:
	case <-ctx.Done():
	}
}

// sendError sends an error to the error channel without blocking.
// Errors are dropped only if the buffer is full.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
	}
}
