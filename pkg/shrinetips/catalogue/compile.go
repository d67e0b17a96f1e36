package catalogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

const (
	// DefaultMatchTimeout bounds a single pattern evaluation. Knowledge-base
	// authors write raw pattern syntax, so a catastrophic pattern must not be
	// able to stall classification.
	DefaultMatchTimeout = 100 * time.Millisecond

	// MaxTemplateLength is the maximum allowed length of a pattern template.
	MaxTemplateLength = 1024

	// numberFragment replaces every '#' in a template.
	numberFragment = "[0-9.]+"
)

// Translate rewrites a knowledge-base template into pattern syntax: '+' is
// escaped to match itself, '#' stands for a number, and every other
// character is passed through unchanged.
func Translate(template string) string {
	var sb strings.Builder
	sb.Grow(len(template) + 8)
	for _, r := range template {
		switch r {
		case '+':
			sb.WriteString(`\+`)
		case '#':
			sb.WriteString(numberFragment)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Compile compiles a knowledge-base template into a case-insensitive
// pattern. Invalid templates yield a *PatternError.
func Compile(template string) (*regexp2.Regexp, error) {
	re, err := compile(template, DefaultMatchTimeout)
	if err != nil {
		return nil, &PatternError{
			Effect:   -1,
			Entry:    -1,
			Template: template,
			Message:  err.Error(),
			Cause:    err,
		}
	}
	return re, nil
}

func compile(template string, timeout time.Duration) (*regexp2.Regexp, error) {
	if template == "" {
		return nil, fmt.Errorf("template is empty")
	}
	if len(template) > MaxTemplateLength {
		return nil, fmt.Errorf("template too long: %d bytes (max %d)", len(template), MaxTemplateLength)
	}
	re, err := regexp2.Compile(Translate(template), regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	re.MatchTimeout = timeout
	return re, nil
}
