package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeKey lowercases and trims a string for use as a consistent lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Capitalize turns a stored key fragment into a display name: it splits
// on underscores, upper-cases the first letter of every word and joins
// the words with spaces ("clan_war" becomes "Clan War"). The rest of
// each word is left as is.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// SnakeCase lowercases s and replaces every run of whitespace and
// hyphens with a single underscore. Other characters pass through.
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	for _, r := range s {
		if r == '-' || unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// LooseMatch reduces free text such as a player name to a form suitable
// for comparison: hyphens and underscores become spaces, whitespace runs
// collapse to one space, and the result is trimmed and lowercased.
// "Iron_Man-99" and "iron man 99" compare equal after LooseMatch.
func LooseMatch(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
