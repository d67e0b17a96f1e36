// Package tailer follows a growing text file line by line.
package tailer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nxadm/tail"
)

// Config configures a Tailer.
type Config struct {
	// FromStart reads the file from the beginning instead of the end.
	FromStart bool
	// Poll uses polling instead of inotify, for file systems without
	// change notifications (network shares, some containers).
	Poll bool
	// MustExist fails New when the file does not exist yet.
	MustExist bool
}

// DefaultConfig returns the default configuration: follow from the end,
// reopen on truncation, use change notifications.
func DefaultConfig() Config {
	return Config{MustExist: true}
}

// Tailer streams lines appended to a file.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts following path. Lines are delivered without their trailing
// "\r". The tailer stops when ctx is cancelled or Stop is called.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	whence := io.SeekEnd
	if cfg.FromStart {
		whence = io.SeekStart
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: cfg.MustExist,
		Poll:      cfg.Poll,
		Location:  &tail.SeekInfo{Offset: 0, Whence: whence},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("tail file: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	tl := &Tailer{
		t:      t,
		lines:  make(chan string),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.done)
	defer close(tl.lines)
	defer close(tl.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				if err := tl.t.Err(); err != nil {
					select {
					case tl.errs <- err:
					default:
					}
				}
				return
			}
			if line.Err != nil {
				select {
				case tl.errs <- line.Err:
				case <-ctx.Done():
					return
				}
				continue
			}
			select {
			case tl.lines <- strings.TrimSuffix(line.Text, "\r"):
			case <-ctx.Done():
				return
			}
		}
	}
}

// Lines returns the channel of followed lines. It closes when the tailer
// stops.
func (tl *Tailer) Lines() <-chan string {
	return tl.lines
}

// Errors returns the channel of read errors.
func (tl *Tailer) Errors() <-chan error {
	return tl.errs
}

// Stop stops following and releases inotify resources.
// Safe to call multiple times.
func (tl *Tailer) Stop() error {
	tl.cancel()
	err := tl.t.Stop()
	<-tl.done
	tl.t.Cleanup()
	return err
}
