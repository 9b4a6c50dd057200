// Package slug generates and validates URL-safe entity identifiers.
//
// A valid slug consists of lowercase letters and digits separated by
// single hyphens, with no leading or trailing hyphen. Generation folds
// German diacritics deterministically (ä→ae, ö→oe, ü→ue, ß→ss) so the
// same display name always maps to the same slug.
package slug

import (
	"regexp"
	"strings"
)

// foldings maps diacritics to their ASCII transliteration.
// Entries cover both cases; everything else non-alphanumeric
// becomes a hyphen during generation.
var foldings = map[rune]string{
	'ä': "ae", 'Ä': "ae",
	'ö': "oe", 'Ö': "oe",
	'ü': "ue", 'Ü': "ue",
	'ß': "ss",
	'á': "a", 'à': "a", 'â': "a", 'Á': "a", 'À': "a", 'Â': "a",
	'é': "e", 'è': "e", 'ê': "e", 'É': "e", 'È': "e", 'Ê': "e",
	'í': "i", 'ì': "i", 'î': "i", 'Í': "i", 'Ì': "i", 'Î': "i",
	'ó': "o", 'ò': "o", 'ô': "o", 'Ó': "o", 'Ò': "o", 'Ô': "o",
	'ú': "u", 'ù': "u", 'û': "u", 'Ú': "u", 'Ù': "u", 'Û': "u",
	'ñ': "n", 'Ñ': "n",
	'ç': "c", 'Ç': "c",
}

var validPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Generate converts an arbitrary display name into a valid slug.
// Diacritics are folded, everything else outside [a-z0-9] becomes a
// hyphen, and runs of hyphens are collapsed. The empty string maps to
// the empty string; callers must treat that as a missing slug.
func Generate(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // suppress leading hyphen
	for _, r := range name {
		if folded, ok := foldings[r]; ok {
			b.WriteString(folded)
			lastHyphen = false
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// Valid reports whether s is a well-formed slug: lowercase letters,
// digits and single interior hyphens only.
func Valid(s string) bool {
	return validPattern.MatchString(s)
}
