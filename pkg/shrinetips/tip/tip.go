// Package tip defines the structured record parsed from a copied item
// description.
package tip

import (
	"errors"
	"fmt"
)

// Rarity values as they appear (lower-cased) in Tip.Rarity.
const (
	RarityNormal   = "normal"
	RarityMagic    = "magic"
	RarityRare     = "rare"
	RarityUnique   = "unique"
	RarityGem      = "gem"
	RarityCurrency = "currency"
)

// KeyValue is one "key: value" line. Keys are not unique.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Tip is a parsed item description.
type Tip struct {
	Rarity       string     `json:"rarity"`
	Name         string     `json:"name"`
	Base         string     `json:"base"`
	BaseStats    []KeyValue `json:"base_stats,omitempty"`
	Requirements []KeyValue `json:"requirements,omitempty"`
	Sockets      string     `json:"sockets,omitempty"`
	ItemLevel    int        `json:"item_level,omitempty"`

	// Sections holds the free-form blocks that follow the structured
	// header, one slice of lines per delimiter-bounded block.
	Sections [][]string `json:"sections,omitempty"`
}

// HasImplicit reports whether the first description section is a single
// implicit modifier line rather than a block of explicit modifiers.
func (t *Tip) HasImplicit() bool {
	return len(t.Sections) > 1 && len(t.Sections[0]) == 1
}

// ErrNotTooltip is the sentinel wrapped by every ParseError. Callers that
// poll arbitrary text (clipboards, files) treat it as "ignore this input".
var ErrNotTooltip = errors.New("not an item tooltip")

// ParseError describes why a text was rejected.
type ParseError struct {
	Line    int // 1-based line number in the input, 0 when not tied to a line
	Section int // section counter at the time of failure
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("not an item tooltip: line %d (section %d): %s", e.Line, e.Section, e.Reason)
	}
	return "not an item tooltip: " + e.Reason
}

// Unwrap returns ErrNotTooltip.
func (e *ParseError) Unwrap() error {
	return ErrNotTooltip
}
