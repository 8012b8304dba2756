// ABOUTME: Event and ChatMessage types shared by the stream, transcript, and session layers
// ABOUTME: Defines the closed set of event kinds delivered by the agent event source

package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies what a stream event represents. The set is closed: the
// transcript assembler dispatches over it exhaustively, and the parser
// rejects anything outside it.
type Kind string

const (
	KindUserMessage     Kind = "UserMessage"
	KindRunStarted      Kind = "RunStarted"
	KindRunResponse     Kind = "RunResponse"
	KindRunCompleted    Kind = "RunCompleted"
	KindRunError        Kind = "RunError"
	KindUpdatingMemory  Kind = "UpdatingMemory"
	KindToolCallStarted Kind = "ToolCallStarted"
	KindError           Kind = "Error"
	KindCancelled       Kind = "Cancelled"
)

// kinds is the membership set backing Valid and ParseEvent.
var kinds = map[Kind]struct{}{
	KindUserMessage:     {},
	KindRunStarted:      {},
	KindRunResponse:     {},
	KindRunCompleted:    {},
	KindRunError:        {},
	KindUpdatingMemory:  {},
	KindToolCallStarted: {},
	KindError:           {},
	KindCancelled:       {},
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Terminal reports whether k ends a run. After a terminal event no further
// events for the same run_id are accepted.
func (k Kind) Terminal() bool {
	switch k {
	case KindRunCompleted, KindRunError, KindError, KindCancelled:
		return true
	}
	return false
}

// IsError reports whether k represents a failed or aborted run.
func (k Kind) IsError() bool {
	return k == KindRunError || k == KindError || k == KindCancelled
}

// ContentType describes the payload encoding of an event's content field.
type ContentType string

const (
	ContentTypeText ContentType = "text"
	ContentTypeStr  ContentType = "str"
)

// Event is one item from the live agent stream. Events are immutable once
// received; ordering within a run_id is arrival order from the source.
type Event struct {
	Content     string      `json:"content"`
	AgentID     string      `json:"agent_id"`
	Kind        Kind        `json:"event"`
	RunID       string      `json:"run_id"`
	SessionID   string      `json:"session_id"`
	CreatedAt   int64       `json:"created_at"` // Unix milliseconds
	ContentType ContentType `json:"content_type"`
}

// ParseEvent decodes a single JSON-encoded stream event and validates its
// kind against the closed set.
func ParseEvent(data []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	if !evt.Kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", evt.Kind)
	}
	return &evt, nil
}

// ChatMessage is a display unit derived from one or more events.
//
// Content is the authoritative accumulated text. DisplayedContent may lag
// Content while a reveal policy animates output; it never diverges from a
// prefix of Content. IsStreaming and IsComplete are mutually exclusive
// except both false before the first content arrives, and IsComplete never
// reverts to false once set.
type ChatMessage struct {
	ID               string `json:"id"`
	Content          string `json:"content"`
	DisplayedContent string `json:"displayedContent"`
	IsComplete       bool   `json:"isComplete"`
	IsStreaming      bool   `json:"isStreaming"`
	Kind             Kind   `json:"event"`
	Timestamp        int64  `json:"timestamp"` // Unix milliseconds
}

// Now returns the current time in Unix milliseconds, the timestamp unit
// used on the wire and in durable records.
func Now() int64 {
	return time.Now().UnixMilli()
}
