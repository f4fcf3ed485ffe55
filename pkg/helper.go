package pkg

import (
	"regexp"
	"strings"
)

var labelRe = regexp.MustCompile(`\s+`)

// NormalizeCategory trims and collapses whitespace in a user-supplied category
// label so "Family  time " and "Family time" land in the same bucket.
func NormalizeCategory(label string) string {
	label = strings.TrimSpace(label)
	label = labelRe.ReplaceAllString(label, " ")
	if label == "" {
		return "General"
	}
	return label
}
