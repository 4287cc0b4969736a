package intent

import "testing"

func TestDetectVideoRequest(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"show me a tutorial on sorting", true},
		{"can you find a video about cats", true},
		{"I want to WATCH something fun", true},
		{"any good youtube link for go concurrency?", true},
		{"what's the weather today", false},
		{"tell me about rust ownership", false},
		{"how do I bake bread", false},
	}

	for _, tc := range cases {
		if got := DetectVideoRequest(tc.text); got != tc.want {
			t.Errorf("DetectVideoRequest(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtractSearchQuery(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"can you show me a video about sorting algorithms", "sorting algorithms"},
		{"find videos on golang channels", "golang channels"},
		{"i want a youtube link for guitar lessons", "guitar lessons"},
		{"show me cat videos!", "cat"},
	}

	for _, tc := range cases {
		if got := ExtractSearchQuery(tc.text); got != tc.want {
			t.Errorf("ExtractSearchQuery(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractSearchQueryFallsBackToInput(t *testing.T) {
	// Everything is stripped away, so the original text comes back.
	text := "show me a video"
	if got := ExtractSearchQuery(text); got != text {
		t.Errorf("ExtractSearchQuery(%q) = %q, want the input back", text, got)
	}
}
