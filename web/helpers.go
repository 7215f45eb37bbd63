package web

import (
	"strings"
)

// ImageURLWithSize rewrites a profile image URL to another size variant:
// "bigger" (73px), "normal" (48px) or "mini" (24px). It relies on Twitter's
// "_normal." naming and returns url unchanged when that marker is missing.
func ImageURLWithSize(url, size string) string {
	if size == "" {
		size = "normal"
	}
	return strings.Replace(url, "_normal.", "_"+size+".", 1)
}

// ToSentence joins words as "a", "a and b" or "a, b and c".
func ToSentence(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	}
	return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
}

// mentions prefixes every screen name with "@".
func mentions(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "@" + n
	}
	return out
}
