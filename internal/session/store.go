// ABOUTME: Session Store: in-memory session index with durable write-through
// ABOUTME: Owns the canonical per-cache-key list; every mutation persists then publishes

package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/agentdeck/agentdeck/internal/event"
	"github.com/agentdeck/agentdeck/internal/identity"
	"github.com/agentdeck/agentdeck/internal/storage"
)

// Store is the canonical owner of the in-memory session list per cache key.
// All mutation is serialized by one mutex, which preserves the guarantee
// that ChatSessions always reflects the latest completed save.
//
// The durable KV may be nil, in which case persistence degrades to a no-op
// while in-memory behavior continues normally.
type Store struct {
	mu       sync.Mutex
	cache    map[string][]*Session
	kv       storage.KV
	identity identity.Provider
	feed     *Feed
	logger   *slog.Logger
}

// NewStore creates a session store. Pass nil kv to run memory-only and nil
// logger for default.
func NewStore(kv storage.KV, ident identity.Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "session")
	return &Store{
		cache:    make(map[string][]*Session),
		kv:       kv,
		identity: ident,
		feed:     NewFeed(logger),
		logger:   logger,
	}
}

// Feed returns the reactive session-list feed. It is a broadcast view over
// whichever cache key was most recently requested.
func (s *Store) Feed() *Feed {
	return s.feed
}

// ChatSessions resolves the session list for the current user and agentID
// and publishes it on the feed. Resolution order: in-memory cache first,
// then the durable record; a missing or malformed record yields an empty
// list. Absence of history is never an error.
func (s *Store) ChatSessions(ctx context.Context, agentID string) *Feed {
	userID := s.identity.CurrentUserID()

	s.mu.Lock()
	key := cacheKey(userID, agentID)
	if sessions, ok := s.cache[key]; ok {
		snap := snapshot(sessions)
		s.mu.Unlock()
		s.feed.Publish(snap)
		return s.feed
	}

	sessions := s.hydrateLocked(ctx, userID, agentID)
	snap := snapshot(sessions)
	s.mu.Unlock()

	s.feed.Publish(snap)
	return s.feed
}

// hydrateLocked loads the durable record for (userID, agentID) into the
// cache. Must be called with mu held. Returns the resident list, which is
// empty when the record is missing, malformed, or storage is absent.
func (s *Store) hydrateLocked(ctx context.Context, userID, agentID string) []*Session {
	if s.kv == nil {
		return nil
	}

	raw, err := s.kv.Get(ctx, storageKey(userID, agentID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("reading stored sessions failed",
				"user_id", userID,
				"agent_id", agentID,
				"error", err)
		}
		return nil
	}

	var sessions []*Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		// Malformed history degrades to an empty list, never to a failure.
		s.logger.Warn("stored sessions malformed, treating as empty",
			"user_id", userID,
			"agent_id", agentID,
			"error", err)
		return nil
	}

	s.cache[cacheKey(userID, agentID)] = sessions
	return sessions
}

// SaveOrUpdateSession inserts a new session at the head of its cache key's
// list or updates the existing entry in place, then truncates to the
// retention cap, persists the full list, and publishes it on the feed.
func (s *Store) SaveOrUpdateSession(ctx context.Context, req SaveRequest) {
	now := event.Now()

	s.mu.Lock()
	key := cacheKey(req.UserID, req.AgentID)
	sessions := s.cache[key]

	existing := findSession(sessions, req.SessionID)
	if existing != nil {
		existing.UpdatedAt = now
		if req.Messages != nil {
			existing.MessageCount = len(req.Messages)
			existing.Messages = req.Messages
		} else {
			existing.MessageCount++
		}
		if req.Message != "" {
			existing.LastMessage = req.Message
		}
	} else {
		sess := &Session{
			SessionID:    req.SessionID,
			AgentID:      req.AgentID,
			UserID:       req.UserID,
			Title:        GenerateSessionTitle(req.Message),
			CreatedAt:    now,
			UpdatedAt:    now,
			MessageCount: 1,
			LastMessage:  req.Message,
			Messages:     req.Messages,
		}
		if req.Messages != nil {
			sess.MessageCount = len(req.Messages)
		}
		// Most-recent-first is the list's only defined order.
		sessions = append([]*Session{sess}, sessions...)
	}

	// Hard retention cap, head-preserving. Correct only because inserts
	// always go to the front; see the retention tests for the coupling.
	if len(sessions) > maxSessions {
		sessions = sessions[:maxSessions]
	}

	s.cache[key] = sessions
	s.persistLocked(ctx, req.UserID, req.AgentID, sessions)
	snap := snapshot(sessions)
	s.mu.Unlock()

	s.feed.Publish(snap)
}

// DeleteSession removes the matching session from the current user's list
// for agentID. Deleting an absent session is a no-op, not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID, agentID string) {
	userID := s.identity.CurrentUserID()

	s.mu.Lock()
	key := cacheKey(userID, agentID)
	sessions := s.cache[key]

	filtered := sessions[:0:0]
	for _, sess := range sessions {
		if sess.SessionID != sessionID {
			filtered = append(filtered, sess)
		}
	}

	s.cache[key] = filtered
	s.persistLocked(ctx, userID, agentID, filtered)
	snap := snapshot(filtered)
	s.mu.Unlock()

	s.feed.Publish(snap)
}

// ClearSessions replaces the current user's list for agentID with an empty
// one and removes the durable record entirely.
func (s *Store) ClearSessions(ctx context.Context, agentID string) {
	userID := s.identity.CurrentUserID()

	s.mu.Lock()
	s.cache[cacheKey(userID, agentID)] = nil

	if s.kv != nil {
		if err := s.kv.Remove(ctx, storageKey(userID, agentID)); err != nil {
			s.logger.Warn("removing stored sessions failed",
				"user_id", userID,
				"agent_id", agentID,
				"error", err)
		}
	}
	s.mu.Unlock()

	s.feed.Publish(nil)
}

// SessionMessages returns the messages of a resident session. It consults
// the in-memory cache only and returns nil when the cache key or session is
// not resident; callers wanting hydration must call ChatSessions first.
func (s *Store) SessionMessages(sessionID, agentID string) []event.ChatMessage {
	userID := s.identity.CurrentUserID()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := findSession(s.cache[cacheKey(userID, agentID)], sessionID)
	if sess == nil {
		return nil
	}
	return sess.Messages
}

// UpdateSessionMessages replaces a session's stored messages, setting
// last_message to the final entry's content when messages is non-empty.
func (s *Store) UpdateSessionMessages(ctx context.Context, sessionID, agentID string, messages []event.ChatMessage) {
	if messages == nil {
		messages = []event.ChatMessage{}
	}

	req := SaveRequest{
		SessionID: sessionID,
		AgentID:   agentID,
		UserID:    s.identity.CurrentUserID(),
		Messages:  messages,
	}
	if len(messages) > 0 {
		req.Message = messages[len(messages)-1].Content
	}

	s.SaveOrUpdateSession(ctx, req)
}

// LogMessageToSession records conversation-starting moments into the session
// index. Only UserMessage and RunStarted events create or touch a session;
// everything else is ignored here.
func (s *Store) LogMessageToSession(ctx context.Context, evt *event.Event, message string) {
	if evt.Kind != event.KindUserMessage && evt.Kind != event.KindRunStarted {
		return
	}

	if message == "" {
		message = evt.Content
	}

	s.SaveOrUpdateSession(ctx, SaveRequest{
		SessionID: evt.SessionID,
		AgentID:   evt.AgentID,
		UserID:    s.identity.CurrentUserID(),
		Message:   message,
	})
}

// persistLocked writes the full list verbatim to durable storage. Must be
// called with mu held. Failures are logged and swallowed: persistence is
// fire-and-forget-once, and conversational continuity outranks durability.
func (s *Store) persistLocked(ctx context.Context, userID, agentID string, sessions []*Session) {
	if s.kv == nil {
		return
	}

	if sessions == nil {
		sessions = []*Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		s.logger.Error("encoding sessions failed",
			"user_id", userID,
			"agent_id", agentID,
			"error", err)
		return
	}

	if err := s.kv.Set(ctx, storageKey(userID, agentID), string(data)); err != nil {
		s.logger.Warn("persisting sessions failed",
			"user_id", userID,
			"agent_id", agentID,
			"error", err)
	}
}

// findSession returns the session with the given id, or nil.
func findSession(sessions []*Session, sessionID string) *Session {
	for _, sess := range sessions {
		if sess.SessionID == sessionID {
			return sess
		}
	}
	return nil
}

// snapshot copies the list so feed consumers never observe later mutation
// of the canonical slice.
func snapshot(sessions []*Session) []*Session {
	out := make([]*Session, len(sessions))
	copy(out, sessions)
	return out
}
