// Package tooltip parses copied item descriptions into structured tips.
package tooltip

import (
	"strconv"
	"strings"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/tip"
)

// Section counter values with a dedicated handler. Every counter value at
// or beyond sectionDescription is a free-form description block.
const (
	sectionHeader = iota
	sectionBaseStats
	sectionRequirements
	sectionSockets
	sectionItemLevel
	sectionDescription
)

// outcome is a section handler's verdict on a single line.
type outcome int

const (
	// consumed means the handler accepted the line.
	consumed outcome = iota
	// passThrough means the handler's section is absent from the input; the
	// same line is offered to the next section.
	passThrough
)

// handler processes one line of the section it is registered for.
type handler func(p *parser, line string) (outcome, error)

// handlers are indexed by section counter. Header and base stats always
// consume; requirements, sockets and item level are soft and may pass a
// line through.
var handlers = [sectionDescription]handler{
	sectionHeader:       (*parser).header,
	sectionBaseStats:    (*parser).baseStat,
	sectionRequirements: (*parser).requirement,
	sectionSockets:      (*parser).sockets,
	sectionItemLevel:    (*parser).itemLevel,
}

type parser struct {
	tip *tip.Tip

	section     int // incremented by every delimiter and every pass-through
	line        int // content lines seen since the last delimiter
	baseSection int // section counter of the first description block, -1 until seen
	lineNo      int // 1-based input line, for errors
}

// Parse parses a copied item description.
//
// Returns:
//   - (*Tip, nil): Successfully parsed
//   - (nil, *tip.ParseError): Input is not an item description
func Parse(text string) (*tip.Tip, error) {
	p := &parser{
		tip:         &tip.Tip{},
		baseSection: -1,
	}

	for i, raw := range strings.Split(text, "\n") {
		p.lineNo = i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if line == delimiter {
			p.section++
			p.line = 0
			continue
		}
		if err := p.feed(line); err != nil {
			return nil, err
		}
		p.line++
	}

	if p.tip.Rarity == "" {
		return nil, &tip.ParseError{Reason: "missing rarity"}
	}
	if p.tip.Name == "" {
		return nil, &tip.ParseError{Reason: "missing item name"}
	}
	return p.tip, nil
}

// feed offers line to the current section's handler, cascading to the
// following sections while handlers pass it through.
func (p *parser) feed(line string) error {
	for p.section < sectionDescription {
		out, err := handlers[p.section](p, line)
		if err != nil {
			return err
		}
		if out == consumed {
			return nil
		}
		p.section++
	}
	p.describe(line)
	return nil
}

func (p *parser) fail(reason string) error {
	return &tip.ParseError{Line: p.lineNo, Section: p.section, Reason: reason}
}

func (p *parser) header(line string) (outcome, error) {
	switch p.line {
	case 0:
		match := rarityPattern.FindStringSubmatch(line)
		if match == nil {
			return consumed, p.fail("expected \"Rarity: <word>\"")
		}
		p.tip.Rarity = strings.ToLower(match[1])
	case 1:
		p.tip.Name = strings.TrimSpace(nameTagPattern.ReplaceAllString(line, ""))
	case 2:
		p.tip.Base = line
	}
	return consumed, nil
}

func (p *parser) baseStat(line string) (outcome, error) {
	if match := keyValuePattern.FindStringSubmatch(line); match != nil {
		p.tip.BaseStats = append(p.tip.BaseStats, tip.KeyValue{Key: match[1], Value: match[2]})
	} else {
		p.tip.BaseStats = append(p.tip.BaseStats, tip.KeyValue{Key: line})
	}
	return consumed, nil
}

func (p *parser) requirement(line string) (outcome, error) {
	if p.line == 0 {
		if line == requirementsHeading {
			return consumed, nil
		}
		return passThrough, nil
	}
	match := keyValuePattern.FindStringSubmatch(line)
	if match == nil {
		return consumed, p.fail("malformed requirement line")
	}
	p.tip.Requirements = append(p.tip.Requirements, tip.KeyValue{Key: match[1], Value: match[2]})
	return consumed, nil
}

func (p *parser) sockets(line string) (outcome, error) {
	match := socketsPattern.FindStringSubmatch(line)
	if match == nil {
		return passThrough, nil
	}
	p.tip.Sockets = strings.TrimSpace(match[1])
	return consumed, nil
}

func (p *parser) itemLevel(line string) (outcome, error) {
	match := itemLevelPattern.FindStringSubmatch(line)
	if match == nil {
		return passThrough, nil
	}
	level, err := strconv.Atoi(match[1])
	if err != nil {
		// Only reachable on overflow; treat the line as description text.
		return passThrough, nil
	}
	p.tip.ItemLevel = level
	return consumed, nil
}

// describe appends line to the description block of the current section.
// Blocks are indexed relative to the first section that reached this
// state, growing on demand.
func (p *parser) describe(line string) {
	if p.baseSection < 0 {
		p.baseSection = p.section
	}
	idx := p.section - p.baseSection
	for len(p.tip.Sections) <= idx {
		p.tip.Sections = append(p.tip.Sections, nil)
	}
	p.tip.Sections[idx] = append(p.tip.Sections[idx], line)
}
