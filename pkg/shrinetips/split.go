package shrinetips

import "strings"

const rarityPrefix = "Rarity:"

// blockSplitter groups a stream of lines into item texts. A "Rarity:" line
// ends the current item and starts the next one. Blank lines are dropped and
// never end an item; callers flush the last item themselves.
type blockSplitter struct {
	lines []string
}

// feed adds a line and returns a completed item text, if any.
func (s *blockSplitter) feed(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(trimmed, rarityPrefix) && len(s.lines) > 0 {
		text, ok := s.flush()
		s.lines = append(s.lines, line)
		return text, ok
	}
	s.lines = append(s.lines, line)
	return "", false
}

// flush returns the pending item text and resets the splitter.
func (s *blockSplitter) flush() (string, bool) {
	if len(s.lines) == 0 {
		return "", false
	}
	text := strings.Join(s.lines, "\n")
	s.lines = s.lines[:0]
	return text, true
}

func (s *blockSplitter) pending() bool {
	return len(s.lines) > 0
}

// SplitItems splits text holding several copied items into one text per
// item. Each item starts at a "Rarity:" line; text before the first one forms
// its own block. Blank lines are dropped.
func SplitItems(text string) []string {
	var (
		s     blockSplitter
		items []string
	)
	for _, line := range strings.Split(text, "\n") {
		if item, ok := s.feed(strings.TrimSuffix(line, "\r")); ok {
			items = append(items, item)
		}
	}
	if item, ok := s.flush(); ok {
		items = append(items, item)
	}
	return items
}
