// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sanitize normalizes free-text input before persistence.
package sanitize

import (
	"html"
	"strings"
)

// Clean strips markup from s, collapses runs of whitespace to single
// spaces, trims, and truncates to max runes. Applied to every free-text
// field before it reaches the database. Tags are stripped again after
// entity decoding so encoded markup like &lt;script&gt; cannot survive
// as live markup.
func Clean(s string, max int) string {
	s = stripTags(s)
	s = html.UnescapeString(s)
	s = stripTags(s)
	s = strings.Join(strings.Fields(s), " ")
	return Truncate(s, max)
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// stripTags removes anything between < and >. Unclosed tags are dropped
// through end of string, which errs on the side of removing content rather
// than persisting markup fragments.
func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
