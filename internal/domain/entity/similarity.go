package entity

import (
	"strings"
	"unicode"
)

// Similarity scores how close two strings are on a [0,1] scale using
// Sørensen-Dice overlap of character bigrams. Whitespace is ignored entirely,
// equal strings score exactly 1.0, and strings shorter than two characters
// score 0 unless equal. Bigrams are counted as a multiset so repeated pairs
// only match as often as they occur in both inputs.
func Similarity(first, second string) float64 {
	a := []rune(stripSpace(first))
	b := []rune(stripSpace(second))

	if string(a) == string(b) {
		return 1.0
	}
	if len(a) < 2 || len(b) < 2 {
		return 0.0
	}

	counts := make(map[string]int, len(a)-1)
	for i := 0; i < len(a)-1; i++ {
		counts[string(a[i:i+2])]++
	}

	matches := 0
	for i := 0; i < len(b)-1; i++ {
		bigram := string(b[i : i+2])
		if counts[bigram] > 0 {
			counts[bigram]--
			matches++
		}
	}

	return 2.0 * float64(matches) / float64(len(a)+len(b)-2)
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

//Personal.AI order the ending
