package compose

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlStyleScriptRe = regexp.MustCompile(`(?is)<(style|script)[^>]*>.*?</(style|script)>`)
	htmlLineBreakRe   = regexp.MustCompile(`(?i)<(?:br\s*/?|/p|/div|/tr|/li|/h[1-6])\s*>`)
	htmlTagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	blankLinesRe      = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText derives a plain-text rendering from HTML markup. This is a
// heuristic, not a full HTML renderer: block-level closings become line
// breaks, remaining tags are dropped and entities are decoded.
func HTMLToText(s string) string {
	s = htmlStyleScriptRe.ReplaceAllString(s, "")
	s = htmlLineBreakRe.ReplaceAllString(s, "\n")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
