package meta

import "strings"

// Character budgets enforced on every page.
const (
	MaxTitle             = 60
	MaxDescription       = 160
	MaxSocialTitle       = 70
	MaxSocialDescription = 200
)

// Ellipsis is appended when a string is truncated.
const Ellipsis = "…"

// wordBoundaryShare is the fraction of the limit after which a
// whitespace cut is preferred over a hard cut.
const wordBoundaryShare = 0.7

// Truncate shortens s to at most limit runes. The cut lands on the last
// whitespace before the limit when that whitespace falls after 70% of
// the limit; otherwise the string is cut hard at the limit. A truncated
// string ends in the ellipsis marker, which counts against the limit.
// Strings already within the limit are returned unchanged, making the
// operation idempotent.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	keep := limit - len([]rune(Ellipsis))
	if keep <= 0 {
		return Ellipsis
	}

	cut := keep
	boundary := -1
	for i := keep; i > 0; i-- {
		if isSpace(runes[i]) {
			boundary = i
			break
		}
	}
	if boundary >= int(wordBoundaryShare*float64(limit)) {
		cut = boundary
	}

	return strings.TrimRight(string(runes[:cut]), " \t") + Ellipsis
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// joinParts assembles ordered semantic parts with the fixed separator,
// skipping empties.
func joinParts(parts []string, sep string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
