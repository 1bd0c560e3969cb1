package util

import (
	"regexp"
	"strings"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// Slugify converts display text to a kebab-case identifier: lowercase,
// non-alphanumeric runs collapsed to single hyphens, trimmed.
func Slugify(input string) string {
	s := strings.ToLower(input)
	s = reNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}
