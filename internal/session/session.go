// ABOUTME: Session record and cache key helpers for the chat history index
// ABOUTME: Sessions are partitioned by user_id+agent_id and serialized verbatim to storage

package session

import (
	"fmt"

	"github.com/agentdeck/agentdeck/internal/event"
)

// maxSessions is the hard retention cap per cache key. Enforced by
// head-preserving truncation immediately after every insert.
const maxSessions = 50

// Session is one conversation thread. Identity is SessionID, unique within
// a cache key. CreatedAt is set once and never mutated; UpdatedAt advances
// on every mutation. Timestamps are Unix milliseconds.
type Session struct {
	SessionID    string              `json:"session_id"`
	AgentID      string              `json:"agent_id"`
	UserID       string              `json:"user_id"`
	Title        string              `json:"title"`
	CreatedAt    int64               `json:"created_at"`
	UpdatedAt    int64               `json:"updated_at"`
	MessageCount int                 `json:"message_count"`
	LastMessage  string              `json:"last_message,omitempty"`
	Messages     []event.ChatMessage `json:"messages,omitempty"`
}

// cacheKey builds the partition key sessions are grouped under.
func cacheKey(userID, agentID string) string {
	return userID + "_" + agentID
}

// storageKey builds the durable record key for a cache key.
func storageKey(userID, agentID string) string {
	return fmt.Sprintf("chat_sessions_%s_%s", userID, agentID)
}

// SaveRequest carries the fields of a save-or-update call. Message and
// Messages are optional: an empty Message leaves last_message unchanged on
// update, and a nil Messages slice never truncates previously stored
// messages.
type SaveRequest struct {
	SessionID string
	AgentID   string
	UserID    string
	Message   string
	Messages  []event.ChatMessage
}
