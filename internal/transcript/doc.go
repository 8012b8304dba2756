// Package transcript folds the live agent event stream into an ordered
// conversation transcript.
//
// # Assembler
//
// The Assembler keys in-flight state by run_id and applies each event as a
// state transition:
//
//   - RunStarted opens a streaming message shell
//   - RunResponse appends content to the shell
//   - RunCompleted, RunError, Error, and Cancelled are terminal and idempotent;
//     later events for that run are dropped, never reopened
//   - UserMessage always appends a new, already-complete message
//
// Messages are appended in the order their defining event was observed;
// timestamps are informational, never a sort key.
//
// # Reveal
//
// Each message carries both the authoritative accumulated Content and a
// DisplayedContent that may lag it. A RevealPolicy decides how quickly the
// displayed text catches up, which lets a renderer animate output without
// any risk of losing data.
package transcript
