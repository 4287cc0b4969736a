// Package sanitize scrubs markdown emphasis artifacts out of model output so
// responses read as plain text.
package sanitize

import (
	"regexp"
	"strings"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order: strikethrough, asterisk emphasis, leftover asterisk
// runs, inline code, blank-line collapse.
var rules = []rule{
	{regexp.MustCompile(`~~(.+?)~~`), "$1"},
	{regexp.MustCompile(`\*{1,3}([^*]+?)\*{1,3}`), "$1"},
	{regexp.MustCompile(`\*{2,}`), ""},
	{regexp.MustCompile("`([^`]+?)`"), "$1"},
	{regexp.MustCompile(`\n\s*\n`), "\n\n"},
}

// Response strips markdown delimiters while keeping the inner text and trims
// surrounding whitespace.
func Response(text string) string {
	if text == "" {
		return text
	}
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return strings.TrimSpace(text)
}
