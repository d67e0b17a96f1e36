// Package safefile reads local knowledge-base and configuration files.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Sentinel errors.
var (
	// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets
	// and directories.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrEmpty is returned by ReadFile for zero-length files.
	ErrEmpty = errors.New("file is empty")

	// ErrTooLarge is returned by ReadFile when a file exceeds its limit.
	ErrTooLarge = errors.New("file too large")
)

// OpenRegular opens path and verifies it is a regular file both before
// opening (without following symlinks) and after, on the descriptor.
//
// The caller must close the returned file.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	// The path may have been swapped between Lstat and Open.
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}

	return f, info, nil
}

// ReadFile reads a regular file of at most limit bytes.
// Errors never contain the path; see SanitizePathError.
func ReadFile(path string, limit int64) ([]byte, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", SanitizePathError(err))
	}
	defer f.Close()

	if info.Size() == 0 {
		return nil, ErrEmpty
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), limit)
	}

	// Read one byte past the limit to catch files growing after Stat.
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", SanitizePathError(err))
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}

// SanitizePathError removes the path from an *os.PathError so error
// messages don't expose file system layout.
func SanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}
