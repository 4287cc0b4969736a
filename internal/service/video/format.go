package video

import (
	"fmt"
	"strings"
)

// NoResultsMessage is rendered when a caller formats an empty list. The
// Searcher's fallback normally keeps this from ever reaching users.
const NoResultsMessage = "I couldn't find any videos for your search query, but you can search manually on YouTube!"

// FormatResults renders videos as a numbered human-readable block.
func FormatResults(videos []Video) string {
	if len(videos) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎥 I found %d video(s) for you:\n\n", len(videos))

	for i, v := range videos {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, v.Title)
		fmt.Fprintf(&b, "   🔗 Link: %s\n", v.URL)
		if v.Channel != "" {
			fmt.Fprintf(&b, "   📺 Channel: %s\n", v.Channel)
		}
		if v.Duration != "" {
			fmt.Fprintf(&b, "   ⏱️ Duration: %s\n", v.Duration)
		}
		if v.Views != "" {
			fmt.Fprintf(&b, "   👀 Views: %s\n", v.Views)
		}
		fmt.Fprintf(&b, "   🎥 Platform: %s\n\n", v.Platform)
	}

	return b.String()
}
