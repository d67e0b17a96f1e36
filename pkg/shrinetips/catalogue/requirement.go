package catalogue

import "strings"

const (
	requireAnyPrefix  = "type+"
	requireNonePrefix = "type-"
)

// CheckReq evaluates a requirement expression against an item's base type.
//
//   - ""              always true
//   - "type+a+b"      base contains a or b (case-insensitive)
//   - "type-a-b"      base contains neither a nor b
//   - anything else   true
//
// A recognized expression is never satisfied by an empty base type.
func CheckReq(expr, base string) bool {
	if expr == "" {
		return true
	}

	var include bool
	var sep string
	switch {
	case strings.HasPrefix(expr, requireAnyPrefix):
		include, sep = true, "+"
	case strings.HasPrefix(expr, requireNonePrefix):
		include, sep = false, "-"
	default:
		return true
	}

	if base == "" {
		return false
	}

	lower := strings.ToLower(base)
	for _, part := range strings.Split(expr[len(requireAnyPrefix):], sep) {
		if strings.Contains(lower, strings.ToLower(part)) {
			return include
		}
	}
	return !include
}
