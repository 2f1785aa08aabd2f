// Package assetfile handles per-topic artifact locations: slug derivation,
// directory layout, downloads and voiceover tagging.
package assetfile

import (
	"strings"
	"unicode"

	"github.com/mbarranco/clipmill/internal/constants"
)

// Slug derives a deterministic, filesystem-safe, length-bounded identifier
// from a topic string. Distinct topics can collide after slugging; no
// collision detection exists.
func Slug(topic string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(topic) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r) || r == '-':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		default:
			// Fold common accented latin letters to ASCII; drop the rest.
			if folded, ok := asciiFold[r]; ok {
				b.WriteRune(folded)
				lastDash = false
			}
		}
	}

	s := strings.Trim(b.String(), "-_")
	if len(s) > constants.SlugMaxLength {
		s = strings.Trim(s[:constants.SlugMaxLength], "-_")
	}
	if s == "" {
		return "default-slug"
	}
	return s
}

var asciiFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ñ': 'n', 'ç': 'c', 'ý': 'y',
}
