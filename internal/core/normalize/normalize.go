// Package normalize canonicalizes free text before keyword matching.
// Steps, in order:
// 1 drop control characters and invalid UTF-8
// 2 Unicode NFC, so decomposed Hangul jamo compose into syllables
// 3 remove format characters (zero-width space, ZWJ, BOM)
// 4 collapse whitespace runs to one space and trim
// Case is preserved; matching stays case-sensitive
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

// Text returns the canonical form of s
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// transform only fails on malformed input, which Sanitize already removed
		out = norm.NFC.String(s)
	}
	return collapseSpaces(out)
}

// collapseSpaces folds every whitespace run, newlines included, into one space
func collapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
