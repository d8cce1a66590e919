package entity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes arbitrary text for alias comparison. It decomposes
// accented characters and drops the combining marks, lower-cases ASCII
// letters, replaces every character that is not an ASCII letter or digit
// with a space, and collapses whitespace runs into single spaces with the
// ends trimmed.
//
// The output contains only [a-z0-9] words separated by single spaces, so
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s). It is
// total; input that cannot be decomposed is folded as-is. Empty or
// whitespace-only input normalizes to "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// The transform chain carries internal buffers, so a fresh one is built
	// per call rather than shared across goroutines.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

//Personal.AI order the ending
