package refresh

import (
	"context"
	"fmt"

	"github.com/shrinetips/shrinetips-go/internal/fetch"
	"github.com/shrinetips/shrinetips-go/internal/safefile"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/kb"
)

// Source supplies raw knowledge-base payloads.
type Source interface {
	// Fetch returns the current payload and the format to decode it with.
	Fetch(ctx context.Context) ([]byte, kb.Format, error)
	// String describes the source for logs.
	String() string
}

// HTTPSource downloads the knowledge base from a URL.
type HTTPSource struct {
	URL    string
	Client *fetch.Client // nil uses fetch.New()
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, kb.Format, error) {
	c := s.Client
	if c == nil {
		c = fetch.New()
	}
	data, err := c.Get(ctx, s.URL)
	if err != nil {
		return nil, kb.FormatAuto, err
	}
	return data, kb.FormatFromPath(s.URL), nil
}

func (s *HTTPSource) String() string {
	return s.URL
}

// FileSource reads the knowledge base from a local file.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, kb.Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, kb.FormatAuto, err
	}
	data, err := safefile.ReadFile(s.Path, catalogue.MaxFileSize)
	if err != nil {
		return nil, kb.FormatAuto, fmt.Errorf("read knowledge base: %w", err)
	}
	return data, kb.FormatFromPath(s.Path), nil
}

func (s *FileSource) String() string {
	return s.Path
}
