// ABOUTME: Reveal policies controlling how DisplayedContent catches up to Content
// ABOUTME: Immediate for non-animated consumers, typewriter for paced rendering

package transcript

import "github.com/agentdeck/agentdeck/internal/event"

// RevealPolicy advances a message's DisplayedContent toward its Content.
// Advance reports whether anything changed. DisplayedContent is always a
// prefix of Content; the policy only decides the pace.
type RevealPolicy interface {
	Advance(msg *event.ChatMessage) bool
}

// ImmediateReveal keeps DisplayedContent equal to Content at all times.
type ImmediateReveal struct{}

// Advance snaps the displayed text to the full content.
func (ImmediateReveal) Advance(msg *event.ChatMessage) bool {
	if msg.DisplayedContent == msg.Content {
		return false
	}
	msg.DisplayedContent = msg.Content
	return true
}

// TypewriterReveal advances the displayed text a fixed number of runes per
// call, producing a typed-out effect when driven by a render ticker.
type TypewriterReveal struct {
	Runes int // runes revealed per Advance; values < 1 behave as 1
}

// Advance reveals the next chunk of content.
func (p TypewriterReveal) Advance(msg *event.ChatMessage) bool {
	if msg.DisplayedContent == msg.Content {
		return false
	}

	step := p.Runes
	if step < 1 {
		step = 1
	}

	content := []rune(msg.Content)
	shown := len([]rune(msg.DisplayedContent))
	if shown+step > len(content) {
		step = len(content) - shown
	}

	msg.DisplayedContent = string(content[:shown+step])
	return true
}
