package shrinetips

import (
	"slices"
	"strings"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/tip"
)

// DefaultRarities are the rarities classified when no filter is configured
// by the command line tools: only items that can roll explicit modifiers.
var DefaultRarities = []string{tip.RarityRare, tip.RarityMagic}

// RarityFilter is an allow-list of item rarities.
// A nil or empty filter allows every rarity.
type RarityFilter struct {
	allow map[string]struct{}
}

// NewRarityFilter creates a filter allowing the given rarities.
// Comparison is case-insensitive; blank names are ignored.
func NewRarityFilter(rarities ...string) *RarityFilter {
	f := &RarityFilter{allow: make(map[string]struct{}, len(rarities))}
	for _, r := range rarities {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			f.allow[r] = struct{}{}
		}
	}
	return f
}

// Allows reports whether rarity passes the filter.
func (f *RarityFilter) Allows(rarity string) bool {
	if f == nil || len(f.allow) == 0 {
		return true
	}
	_, ok := f.allow[strings.ToLower(rarity)]
	return ok
}

// Rarities returns the allowed rarities, sorted.
func (f *RarityFilter) Rarities() []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.allow))
	for r := range f.allow {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
