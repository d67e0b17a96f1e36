package shrinetips

import (
	"slices"

	"github.com/bytedance/sonic"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

// UnknownName is the name of the group collecting unmatched lines.
const UnknownName = "Unknown"

// Group is the set of lines classified under one effect, or the unknown
// bucket.
type Group struct {
	Effect   int      // index of the effect in the knowledge base, -1 for Unknown
	Name     string   // effect display name, or UnknownName
	Template string   // value template, "" for Unknown
	Lines    []string // source lines in encounter order
	Unknown  bool
}

// Entries returns the flat form of the group: name, template and lines for
// an effect, or "Unknown" and lines for the unknown bucket.
func (g Group) Entries() []string {
	if g.Unknown {
		out := make([]string, 0, 1+len(g.Lines))
		out = append(out, UnknownName)
		return append(out, g.Lines...)
	}
	out := make([]string, 0, 2+len(g.Lines))
	out = append(out, g.Name, g.Template)
	return append(out, g.Lines...)
}

// MarshalJSON encodes the group in its flat form.
func (g Group) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(g.Entries())
}

// Match classifies the description lines of t against c.
//
// When the tip has more than one section and the first holds a single line,
// that line is the implicit modifier and is not classified. Every remaining
// line is tested against every matcher, and each matcher whose pattern
// matches and whose requirement holds for t.Base appends the line to its
// effect's group. An effect with two matching patterns lists the line twice.
// Lines of the first classified section that match
// nothing go to the Unknown group; unmatched lines in later sections are
// dropped.
//
// A nil catalogue is treated as empty.
func Match(t *Tip, c *catalogue.Catalogue) []Group {
	if t == nil {
		return nil
	}
	if c == nil {
		c = catalogue.Empty()
	}

	first := 0
	if t.HasImplicit() {
		first = 1
	}

	matchers := c.Matchers()
	byEffect := make(map[int]*Group)
	var unknown []string

	for si := first; si < len(t.Sections); si++ {
		for _, line := range t.Sections[si] {
			matched := false
			for _, m := range matchers {
				if !m.Matches(line, t.Base) {
					continue
				}
				matched = true

				g, ok := byEffect[m.Effect]
				if !ok {
					name, template := c.Effect(m.Effect)
					g = &Group{Effect: m.Effect, Name: name, Template: template}
					byEffect[m.Effect] = g
				}
				g.Lines = append(g.Lines, line)
			}
			if !matched && si == first {
				unknown = append(unknown, line)
			}
		}
	}

	effects := make([]int, 0, len(byEffect))
	for e := range byEffect {
		effects = append(effects, e)
	}
	slices.Sort(effects)

	groups := make([]Group, 0, len(effects)+1)
	for _, e := range effects {
		groups = append(groups, *byEffect[e])
	}
	if len(unknown) > 0 {
		groups = append(groups, Group{
			Effect:  -1,
			Name:    UnknownName,
			Lines:   unknown,
			Unknown: true,
		})
	}
	return groups
}
