// ABOUTME: Session title derivation from the first user message
// ABOUTME: First six whitespace-delimited words, ellipsis when truncated, date fallback

package session

import (
	"strings"
	"time"
)

// titleWordLimit is how many leading words of the first message form the title.
const titleWordLimit = 6

// GenerateSessionTitle derives a human-readable session title from the first
// user message. With no message (or a purely-whitespace one) it falls back to
// "Chat " plus the current date. Deterministic given the same message and day.
func GenerateSessionTitle(message string) string {
	fallback := "Chat " + time.Now().Format("2006-01-02")
	if message == "" {
		return fallback
	}

	words := strings.Fields(message)
	if len(words) == 0 {
		return fallback
	}

	if len(words) < titleWordLimit {
		return strings.Join(words, " ")
	}

	return strings.Join(words[:titleWordLimit], " ") + "..."
}
