// Package initials derives short uppercase monograms from customer names for
// fallback avatar badges.
package initials

import (
	"strings"
	"unicode/utf8"
)

const monogramLength = 2

// FromName computes the avatar monogram for a display name: the first letter of
// the first and last name tokens, or the first two characters of a single-token
// name, upper-cased. An empty name yields an empty monogram.
func FromName(name string) string {
	tokens := strings.Fields(strings.TrimSpace(name))
	if len(tokens) == 0 {
		return ""
	}

	if len(tokens) == 1 {
		return strings.ToUpper(firstRunes(tokens[0], monogramLength))
	}

	firstInitial := firstRunes(tokens[0], 1)
	lastInitial := firstRunes(tokens[len(tokens)-1], 1)
	return strings.ToUpper(firstInitial + lastInitial)
}

func firstRunes(value string, count int) string {
	if utf8.RuneCountInString(value) <= count {
		return value
	}
	runes := []rune(value)
	return string(runes[:count])
}
