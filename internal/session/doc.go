// Package session maintains the per-user, per-agent index of conversation
// sessions.
//
// # Store
//
// The Store owns the canonical in-memory session list for each cache key
// (user_id + agent_id) and writes every mutation through to a durable KV
// mirror before publishing the full updated list on its reactive feed:
//
//	st := session.NewStore(kv, identityProvider, logger)
//	feed := st.ChatSessions(ctx, agentID)
//
// Key operations:
//
//   - ChatSessions(ctx, agentID): hydrate + subscribe surface for an agent
//   - SaveOrUpdateSession(ctx, req): insert-at-head or in-place update
//   - DeleteSession / ClearSessions: removal, tolerant of absence
//   - SessionMessages / UpdateSessionMessages: transcript persistence
//   - LogMessageToSession: conversation-start capture for the assembler
//
// # Feed
//
// The Feed is a replace-not-patch broadcast: every mutation emits the entire
// current list, and new subscribers immediately receive the latest emitted
// value. It is a view over whichever cache key was most recently requested,
// never a source of truth.
//
// # Degradation
//
// A nil KV turns persistence into a no-op while in-memory behavior continues
// normally. A malformed durable record is treated as "no history" and logged,
// never surfaced to callers.
package session
