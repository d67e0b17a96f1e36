// Package catalogue compiles the shrine effect knowledge base into pattern
// matchers.
//
// The knowledge base is a positional array:
//
//	[
//	  102,
//	  ["Acceleration Shrine", "$7Action speed", "#% increased Attack Speed", "#% increased Cast Speed"],
//	  ["Brutal Shrine", "$3Stun", ["#% increased Stun Duration", "type-wand-staff"]]
//	]
//
// Element 0 is the knowledge-base version. Every other array element is an
// effect definition: a display name, a value template, and one or more
// pattern entries. A pattern entry is either a bare template or a
// [template, requirement] pair; see [CheckReq] for the requirement syntax.
package catalogue

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/kb"
)

// firstPatternEntry is the position of the first pattern entry inside an
// effect definition.
const firstPatternEntry = 2

// Matcher is a compiled pattern tagged with the effect it belongs to.
// Matchers are immutable and safe for concurrent use.
type Matcher struct {
	Effect      int    // index of the effect definition in the knowledge base
	Template    string // template as written in the knowledge base
	Requirement string // requirement expression, "" when unconditional

	re *regexp2.Regexp
}

// MatchString reports whether line contains a match of the pattern.
// A pattern that exceeds its match timeout counts as no match.
func (m Matcher) MatchString(line string) bool {
	if m.re == nil {
		return false
	}
	ok, err := m.re.MatchString(line)
	return err == nil && ok
}

// Matches reports whether line matches the pattern and the requirement
// holds for the given base type.
func (m Matcher) Matches(line, base string) bool {
	return m.MatchString(line) && CheckReq(m.Requirement, base)
}

// Catalogue is an immutable, compiled knowledge base.
type Catalogue struct {
	tree     kb.Value
	matchers []Matcher
	skipped  []*PatternError
	effects  []int
	built    time.Time
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	logger       *slog.Logger
	matchTimeout time.Duration
}

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func applyOptions(opts []Option) *buildConfig {
	cfg := &buildConfig{
		logger:       discardLogger,
		matchTimeout: DefaultMatchTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithLogger sets a logger for skipped entries and build summaries.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *buildConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMatchTimeout overrides DefaultMatchTimeout. Non-positive values are
// ignored.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *buildConfig) {
		if d > 0 {
			c.matchTimeout = d
		}
	}
}

// Empty returns a catalogue with no effects. Matching against it puts every
// classified line in the unknown group.
func Empty() *Catalogue {
	return &Catalogue{}
}

// Build compiles a decoded knowledge base.
//
// The tree must be a non-empty array, otherwise a *CatalogueError is
// returned. Element 0 is always the version. Later elements that are not
// arrays are skipped. Pattern
// entries that cannot be compiled are skipped and reported through
// Skipped; they never fail the build.
//
// Example:
//
//	tree, err := kb.DecodeJSON(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cat, err := catalogue.Build(tree)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("knowledge base version", cat.Version())
func Build(tree kb.Value, opts ...Option) (*Catalogue, error) {
	cfg := applyOptions(opts)

	if !tree.IsArray() {
		return nil, &CatalogueError{Message: fmt.Sprintf("expected an array, got %s", tree.Kind())}
	}
	if tree.Len() == 0 {
		return nil, &CatalogueError{Message: "no entries"}
	}

	c := &Catalogue{tree: tree, built: time.Now()}
	for i := 1; i < tree.Len(); i++ {
		entry := tree.Index(i)
		if !entry.IsArray() {
			continue
		}
		c.effects = append(c.effects, i)

		for j := firstPatternEntry; j < entry.Len(); j++ {
			template, req, ok := patternEntry(entry.Index(j))
			if !ok {
				c.skip(cfg.logger, &PatternError{
					Effect:  i,
					Entry:   j,
					Message: "pattern entry must be a string or a [template, requirement] pair",
				})
				continue
			}

			re, err := compile(template, cfg.matchTimeout)
			if err != nil {
				c.skip(cfg.logger, &PatternError{
					Effect:   i,
					Entry:    j,
					Template: template,
					Message:  err.Error(),
					Cause:    err,
				})
				continue
			}

			c.matchers = append(c.matchers, Matcher{
				Effect:      i,
				Template:    template,
				Requirement: req,
				re:          re,
			})
		}
	}

	cfg.logger.Debug("built catalogue",
		"version", c.Version(),
		"effects", len(c.effects),
		"matchers", len(c.matchers),
		"skipped", len(c.skipped))
	return c, nil
}

func (c *Catalogue) skip(logger *slog.Logger, err *PatternError) {
	logger.Warn("skipping knowledge base pattern",
		"effect", err.Effect,
		"entry", err.Entry,
		"error", err.Message)
	c.skipped = append(c.skipped, err)
}

// patternEntry unpacks a bare template or a [template, requirement] pair.
func patternEntry(v kb.Value) (template, requirement string, ok bool) {
	switch v.Kind() {
	case kb.String:
		return v.AsString(), "", true
	case kb.Array:
		if v.Index(0).Kind() != kb.String {
			return "", "", false
		}
		return v.Index(0).AsString(), v.Index(1).AsString(), true
	}
	return "", "", false
}

// Version returns the knowledge-base version (element 0), or 0 when absent.
func (c *Catalogue) Version() int {
	return c.tree.Index(0).AsInt()
}

// Effect returns the display name and value template of the effect
// definition at index.
func (c *Catalogue) Effect(index int) (name, template string) {
	entry := c.tree.Index(index)
	return entry.Index(0).AsString(), entry.Index(1).AsString()
}

// Matchers returns the compiled matchers in knowledge-base order.
// The returned slice must not be modified.
func (c *Catalogue) Matchers() []Matcher {
	return c.matchers
}

// Len returns the number of effect definitions.
func (c *Catalogue) Len() int {
	return len(c.effects)
}

// Effects returns the knowledge-base indexes of every effect definition in
// order, including effects whose patterns were all skipped.
// The returned slice must not be modified.
func (c *Catalogue) Effects() []int {
	return c.effects
}

// Skipped returns the pattern entries that were left out of the build.
func (c *Catalogue) Skipped() []*PatternError {
	return c.skipped
}

// Tree returns the decoded knowledge base the catalogue was built from.
func (c *Catalogue) Tree() kb.Value {
	return c.tree
}

// BuiltAt returns when the catalogue was built; zero for Empty.
func (c *Catalogue) BuiltAt() time.Time {
	return c.built
}
