package util

import (
	"strings"
	"unicode"
)

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen. Thai product names typically carry an
// English slug typed by the admin; this is the fallback when the slug field
// is left blank.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
