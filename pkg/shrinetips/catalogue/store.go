package catalogue

import (
	"sync/atomic"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/kb"
)

var emptyCatalogue = Empty()

// Store publishes the current catalogue to concurrent readers.
// Reloads build a complete new catalogue first and swap it in only on
// success, so a failed reload never leaves readers with a partial or empty
// catalogue.
//
// The zero Store is ready to use and holds an empty catalogue.
type Store struct {
	current atomic.Pointer[Catalogue]
	opts    []Option
}

// NewStore creates a Store whose rebuilds use opts.
func NewStore(opts ...Option) *Store {
	return &Store{opts: opts}
}

// Load returns the published catalogue. It never returns nil.
func (s *Store) Load() *Catalogue {
	if c := s.current.Load(); c != nil {
		return c
	}
	return emptyCatalogue
}

// Swap publishes c and returns the previously published catalogue.
// A nil c is ignored.
func (s *Store) Swap(c *Catalogue) *Catalogue {
	if c == nil {
		return s.Load()
	}
	if prev := s.current.Swap(c); prev != nil {
		return prev
	}
	return emptyCatalogue
}

// Rebuild builds a catalogue from tree and publishes it. On error the
// published catalogue is left unchanged.
func (s *Store) Rebuild(tree kb.Value) (*Catalogue, error) {
	c, err := Build(tree, s.opts...)
	if err != nil {
		return nil, err
	}
	s.current.Store(c)
	return c, nil
}
