// Package strings provides small text helpers shared by formatters and clients
package strings

import (
	std "strings"
	"unicode/utf8"
)

// Or returns def when s is blank, otherwise s trimmed
func Or(s, def string) string {
	if t := std.TrimSpace(s); t != "" {
		return t
	}
	return def
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence
// and marks the cut with an ellipsis
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

// Set builds a membership set from vals, skipping blanks
func Set(vals ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v = std.TrimSpace(v); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}
