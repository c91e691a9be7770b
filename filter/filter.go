// Package filter rejects known spurious Whisper outputs. Whisper tends to
// emit sign-off and subtitle-credit boilerplate on silence or music, so
// accepted text is checked against a denylist before it reaches the overlay.
package filter

import (
	"strings"
	"unicode/utf8"
)

// Phrases Whisper hallucinates on near-silent audio, German and English.
var defaultPhrases = []string{
	"vielen dank",
	"danke fürs zuschauen",
	"danke für's zuschauen",
	"bis zum nächsten mal",
	"untertitel von",
	"untertitel der",
	"subtitles by",
	"thank you for watching",
	"thanks for watching",
	"subscribe",
	"abonnieren",
	"amen",
	"amén",
}

type Filter struct {
	phrases []string
}

// New builds a filter over the default denylist plus any extra phrases.
// Extra phrases are matched the same way: lowercase substring.
func New(extra ...string) *Filter {
	phrases := make([]string, 0, len(defaultPhrases)+len(extra))
	phrases = append(phrases, defaultPhrases...)
	for _, p := range extra {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			phrases = append(phrases, p)
		}
	}
	return &Filter{phrases: phrases}
}

// IsHallucination reports whether text should be discarded: shorter than
// 3 characters after trimming, or containing any denylist phrase. This is
// a heuristic substring match, not a semantic classifier.
func (f *Filter) IsHallucination(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	// Count runes, not bytes: "äh" is two characters.
	if utf8.RuneCountInString(lower) < 3 {
		return true
	}
	for _, phrase := range f.phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
