package shrinetips

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrWatcherClosed is returned by Watch after Close.
	ErrWatcherClosed = errors.New("shrinetips: watcher closed")

	// ErrAlreadyWatching is returned when Watch is called twice.
	ErrAlreadyWatching = errors.New("shrinetips: already watching")

	// ErrNoFile is returned when a watcher is created without a file.
	ErrNoFile = errors.New("shrinetips: no item file configured")
)

// WatchOp identifies the watcher step that failed.
type WatchOp string

const (
	WatchOpTail  WatchOp = "tail"
	WatchOpRead  WatchOp = "read"
	WatchOpParse WatchOp = "parse"
)

// WatchError is sent on a watcher's error channel.
type WatchError struct {
	Op   WatchOp
	Path string
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("watch %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("watch %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *WatchError) Unwrap() error {
	return e.Err
}
