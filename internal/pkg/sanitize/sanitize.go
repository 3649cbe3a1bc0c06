// Package sanitize strips markup from visitor-supplied values and bounds their size.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Ellipsis marks a value that was cut short.
const Ellipsis = "..."

const maxStripPasses = 4

// StripTags drops every tag and comment from s, keeping text content (including the text of
// script and style elements). Decoded entities that form new tags are stripped again.
func StripTags(s string) string {
	for i := 0; i < maxStripPasses; i++ {
		if !strings.ContainsAny(s, "<&") {
			break
		}
		next := stripOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

func stripOnce(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Truncate returns at most max runes of s.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// Text strips tags then truncates to max runes.
func Text(s string, max int) string {
	return Truncate(StripTags(s), max)
}

// CapBytes limits s to max bytes. Oversized input is cut on a rune boundary and ends in Ellipsis.
func CapBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - len(Ellipsis)
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + Ellipsis
}
