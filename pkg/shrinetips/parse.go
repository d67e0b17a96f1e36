package shrinetips

import (
	"github.com/shrinetips/shrinetips-go/internal/tooltip"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/tip"
)

// Tip is a parsed item description.
type Tip = tip.Tip

// KeyValue is one "key: value" line of a Tip.
type KeyValue = tip.KeyValue

// ParseError describes why a text was rejected by Parse.
type ParseError = tip.ParseError

// ErrNotTooltip is wrapped by every error returned from Parse.
var ErrNotTooltip = tip.ErrNotTooltip

// Parse parses copied item text into a Tip.
//
// Return values:
//   - (*Tip, nil): Successfully parsed item
//   - (nil, *ParseError): Text is not an item description; errors.Is(err, ErrNotTooltip) holds
//
// Example:
//
//	t, err := shrinetips.Parse(text)
//	if err != nil {
//	    return // clipboard content is not an item
//	}
//	fmt.Printf("%s (%s)\n", t.Name, t.Base)
func Parse(text string) (*Tip, error) {
	return tooltip.Parse(text)
}
