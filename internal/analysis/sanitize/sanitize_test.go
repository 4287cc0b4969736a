package sanitize

import "testing"

func TestResponse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"This is **bold** and ~~struck~~ and `code`", "This is bold and struck and code"},
		{"***very bold***", "very bold"},
		{"*italic* text", "italic text"},
		{"leftover **** asterisks", "leftover  asterisks"},
		{"first\n\n\n\nsecond", "first\n\nsecond"},
		{"  padded  ", "padded"},
		{"", ""},
		{"no markdown at all", "no markdown at all"},
	}

	for _, tc := range cases {
		if got := Response(tc.in); got != tc.want {
			t.Errorf("Response(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
