package catalogue

import (
	"errors"
	"testing"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/kb"
)

// FuzzCompile tests Compile with arbitrary templates to ensure it never
// panics and that compiled patterns can be run safely.
func FuzzCompile(f *testing.F) {
	f.Add("#% increased Attack Speed", "12% increased Attack Speed")
	f.Add("+# to maximum Life", "+40 to maximum Life")
	f.Add("Adds # to # Fire Damage", "Adds 1 to 2 Fire Damage")
	f.Add(`^(Cold|Fire) Resistance$`, "Cold Resistance")

	// Edge cases
	f.Add("", "")
	f.Add("(", "(")
	f.Add("(?<=#)x", "1x")
	f.Add("\\", "\\")
	f.Add("#{2,}", "1.1")
	f.Add(string([]byte{0xff, 0xfe}), "x")

	f.Fuzz(func(t *testing.T, template, line string) {
		re, err := Compile(template)
		if err != nil {
			var perr *PatternError
			if !errors.As(err, &perr) {
				t.Errorf("Compile returned %T, want *PatternError", err)
			}
			return
		}
		// Timeouts are the only acceptable failure.
		_, _ = re.MatchString(line)
	})
}

// FuzzCheckReq ensures CheckReq never panics.
func FuzzCheckReq(f *testing.F) {
	f.Add("type+wand+dagger", "Imbued Wand")
	f.Add("type-bow", "Long Bow")
	f.Add("type", "")
	f.Add("", "")
	f.Add("type+", "x")
	f.Add("type--", "x")

	f.Fuzz(func(t *testing.T, expr, base string) {
		_ = CheckReq(expr, base)
	})
}

// FuzzBuild feeds arbitrary JSON through the decoder and builder.
func FuzzBuild(f *testing.F) {
	f.Add(`[102, ["Gloom Shrine", "Life", "+# to maximum Life"]]`)
	f.Add(`[1, ["A", "a", ["x #", "type+wand"]], "skip", 7]`)
	f.Add(`[]`)
	f.Add(`{}`)
	f.Add(`[1, ["A"]]`)
	f.Add(`[1, [1, 2, [3]]]`)

	f.Fuzz(func(t *testing.T, data string) {
		tree, err := kb.DecodeJSON([]byte(data))
		if err != nil {
			return
		}
		cat, err := Build(tree)
		if err != nil {
			var cerr *CatalogueError
			if !errors.As(err, &cerr) {
				t.Errorf("Build returned %T, want *CatalogueError", err)
			}
			return
		}
		for _, m := range cat.Matchers() {
			if m.Effect < 1 || m.Effect >= tree.Len() {
				t.Errorf("matcher effect %d out of range [1, %d)", m.Effect, tree.Len())
			}
		}
	})
}
