// Package intent decides whether a user utterance asks for video content and
// pulls the implied search query out of it. Both checks are deliberately
// heuristic keyword/pattern tables; false positives and negatives are
// expected and acceptable.
package intent

import (
	"regexp"
	"strings"
)

var videoKeywords = []string{
	"video", "youtube", "watch", "movie", "film", "clip", "tutorial",
}

var videoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:video|videos)\b.*\b(?:about|on|for|of)\b`),
	regexp.MustCompile(`\b(?:show me|find|search)\b.*\bvideo`),
	regexp.MustCompile(`\byoutube.*\b(?:video|link)`),
	regexp.MustCompile(`\bwatch.*\bvideo`),
	regexp.MustCompile(`\bvideo.*\b(?:tutorial|guide|how to)`),
	regexp.MustCompile(`\b(?:movie|film|clip)\b`),
}

// query extraction strips request phrasing until only the topic remains,
// applied in order.
var queryStrippers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:show me|find|search for|look for|give me|i want|can you)\b`),
	regexp.MustCompile(`(?i)\b(?:video|videos|youtube|link|links)\b`),
	regexp.MustCompile(`(?i)\b(?:about|on|for|of)\b`),
	regexp.MustCompile(`(?i)\b(?:a|an|the)\b`),
}

var (
	punctuation = regexp.MustCompile(`[^\w\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// DetectVideoRequest reports whether the text looks like a request for video
// content: first a case-insensitive keyword scan, then the pattern table.
func DetectVideoRequest(text string) bool {
	lowered := strings.ToLower(text)

	for _, keyword := range videoKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	for _, pattern := range videoPatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}

// ExtractSearchQuery removes request verbs, media words, connectors, and
// punctuation, leaving the search topic. When nothing survives the cleanup
// the original text is returned verbatim.
func ExtractSearchQuery(text string) string {
	clean := text
	for _, stripper := range queryStrippers {
		clean = stripper.ReplaceAllString(clean, "")
	}
	clean = punctuation.ReplaceAllString(clean, " ")
	clean = whitespace.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return text
	}
	return clean
}
