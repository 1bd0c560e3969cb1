package menu

import (
	"regexp"
	"strconv"
	"strings"

	"menuforge/internal"
)

var (
	suffixSizePattern    = regexp.MustCompile(`(?i)^(.+?),\s*(Small|Medium|Large|Kids|Regular|Snack|\d+\s*pc)$`)
	prefixSizePattern    = regexp.MustCompile(`(?i)^(Small|Medium|Large|Kids)\s+(.+)$`)
	pieceCountPattern    = regexp.MustCompile(`(\d+)`)
	suffixVariantPattern = regexp.MustCompile(`(?i)^(.+?),\s*(Crispy Chicken|Grilled Chicken)$`)
	withAndPattern       = regexp.MustCompile(`(?i)^(.+?)\s+with\s+(.+?)\s+and\s+(.+)$`)
	withPattern          = regexp.MustCompile(`(?i)^(.+?)\s+with\s+(.+)$`)
)

type modifierRule struct {
	pattern *regexp.Regexp
	apply   func(groups []string) (base string, modifiers []string)
}

// Evaluated top-down, first match wins. The suffix-variant rule runs before
// the "with" rules: such names may also contain "with" earlier in the string
// and the variant suffix takes precedence.
var modifierRules = []modifierRule{
	{
		pattern: suffixVariantPattern,
		apply: func(g []string) (string, []string) {
			return strings.TrimSpace(g[1]), []string{strings.TrimSpace(g[2])}
		},
	},
	{
		pattern: withAndPattern,
		apply: func(g []string) (string, []string) {
			return strings.TrimSpace(g[1]), []string{strings.TrimSpace(g[2]), strings.TrimSpace(g[3])}
		},
	},
	{
		pattern: withPattern,
		apply: func(g []string) (string, []string) {
			return strings.TrimSpace(g[1]), []string{strings.TrimSpace(g[2])}
		},
	},
}

// Parse decomposes a raw item name into base name, size and modifier phrases.
// Pure and deterministic; captured text keeps its original casing.
func Parse(name string) internal.ParsedName {
	base, size := extractSize(name)

	if isNonCollapsible(base) {
		return internal.ParsedName{BaseName: base, Size: size, IsBaseItem: true}
	}

	for _, rule := range modifierRules {
		if g := rule.pattern.FindStringSubmatch(base); g != nil {
			parsedBase, mods := rule.apply(g)
			return internal.ParsedName{BaseName: parsedBase, Modifiers: mods, Size: size}
		}
	}

	// No pattern matched: indistinguishable from an intentionally unmodified
	// item, and kept that way.
	return internal.ParsedName{BaseName: base, Size: size, IsBaseItem: true}
}

// extractSize strips a trailing ", <size>" qualifier, else a leading
// "<size> " qualifier. The two are never combined.
func extractSize(name string) (string, internal.Size) {
	if g := suffixSizePattern.FindStringSubmatch(name); g != nil {
		base := strings.TrimSpace(g[1])
		token := strings.ToLower(g[2])
		if strings.Contains(token, "pc") {
			if pg := pieceCountPattern.FindStringSubmatch(token); pg != nil {
				pc, _ := strconv.Atoi(pg[1])
				if size, ok := pcSizes[pc]; ok {
					return base, size
				}
				return base, internal.SizeMedium
			}
		}
		return base, sizeForWord(token)
	}

	if g := prefixSizePattern.FindStringSubmatch(name); g != nil {
		return strings.TrimSpace(g[2]), sizeForWord(strings.ToLower(g[1]))
	}

	return name, internal.SizeMedium
}

func sizeForWord(word string) internal.Size {
	if size, ok := sizeWords[word]; ok {
		return size
	}
	return internal.SizeMedium
}

func isNonCollapsible(name string) bool {
	for _, prefix := range nonCollapsiblePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
