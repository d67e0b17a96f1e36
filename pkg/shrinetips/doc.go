// Package shrinetips classifies copied item descriptions against a catalogue
// of shrine effects.
//
// This package allows you to:
//   - Parse copied item text into a structured [Tip]
//   - Match a tip against a compiled [catalogue.Catalogue] into grouped output
//   - Follow an item dump file and classify every item appended to it
//
// # Basic Usage
//
// To classify a single item:
//
//	cat, err := catalogue.BuildFromFile("shrines.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	t, err := shrinetips.Parse(text)
//	if errors.Is(err, shrinetips.ErrNotTooltip) {
//	    return // not an item, ignore
//	}
//
//	for _, g := range shrinetips.Match(t, cat) {
//	    fmt.Println(g.Entries())
//	}
//
// To follow a file that items are appended to:
//
//	var store catalogue.Store
//	store.Swap(cat)
//
//	results, errs, err := shrinetips.WatchWithOptions(ctx,
//	    shrinetips.WithFile("items.txt"),
//	    shrinetips.WithStore(&store),
//	)
//
// # Output
//
// [Match] returns one [Group] per matched effect, ordered by the effect's
// position in the knowledge base, followed by an "Unknown" group holding the
// unmatched lines of the first classified section. Group templates may carry
// a "$D" tint prefix; see [SplitQuality].
package shrinetips
