package api

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"ascii cut", "hello", 3, "hel"},
		{"multi-byte rune at the cut", "héllo", 2, "h"}, // é is 2 bytes starting at index 1
		{"emoji at the cut", "ab\U0001F600cd", 4, "ab"}, // 4-byte rune starting at index 2
		{"all multi-byte", strings.Repeat("日", 10), 10, strings.Repeat("日", 3)},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.max)
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("%s: result %q is not valid UTF-8", tc.name, got)
		}
		if len(got) > tc.max {
			t.Errorf("%s: result exceeds %d bytes", tc.name, tc.max)
		}
	}
}
