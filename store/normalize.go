package store

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var caseFolder = cases.Fold()

// normalizeName NFKC-normalises then Unicode-casefolds s, so that
// "Zürich HB" and "zürich hb" (combining diaeresis vs precomposed
// umlaut, differing case) compare equal, per spec.md §8's name
// matching invariant.
func normalizeName(s string) string {
	return caseFolder.String(norm.NFKC.String(s))
}
