package scrape

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*?>`)
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	nonWordPattern    = regexp.MustCompile(`[^a-zA-Z0-9 ]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips tags and URLs, drops every character outside
// [a-zA-Z0-9 ], and collapses whitespace.
func CleanText(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = urlPattern.ReplaceAllString(text, "")
	// newlines and tabs become spaces first so words on separate lines do
	// not get glued together by the next step
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = nonWordPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
