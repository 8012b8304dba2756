// Package event defines the shared vocabulary for the agent event stream:
// the closed set of event kinds, the wire-level Event record, and the
// ChatMessage display unit derived from one or more events.
package event
