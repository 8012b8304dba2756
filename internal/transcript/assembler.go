// ABOUTME: Assembler folds per-run event sequences into ordered message state transitions
// ABOUTME: Terminal states are idempotent; late events for a finished run are dropped

package transcript

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/agentdeck/agentdeck/internal/event"
)

// SessionLogger is what the assembler needs from the session layer: a side
// channel that records conversation-starting moments without the assembler
// knowing anything about persistence.
type SessionLogger interface {
	LogMessageToSession(ctx context.Context, evt *event.Event, message string)
}

// runState tracks the in-flight message for one run_id.
type runState struct {
	msg      *event.ChatMessage
	terminal bool
}

// Assembler consumes the live event stream for a conversation and maintains
// the ordered transcript. Messages are appended in observation order.
type Assembler struct {
	mu       sync.Mutex
	messages []*event.ChatMessage
	runs     map[string]*runState
	reveal   RevealPolicy
	sessions SessionLogger
	logger   *slog.Logger
}

// New creates an assembler. sessions may be nil when no session index is in
// play (e.g. one-shot tooling); reveal may be nil for immediate reveal.
func New(sessions SessionLogger, reveal RevealPolicy, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if reveal == nil {
		reveal = ImmediateReveal{}
	}
	return &Assembler{
		runs:     make(map[string]*runState),
		reveal:   reveal,
		sessions: sessions,
		logger:   logger.With("component", "transcript"),
	}
}

// Apply folds one stream event into the transcript. The dispatch is
// exhaustive over the closed kind set; events for a run already in a
// terminal state are dropped.
func (a *Assembler) Apply(ctx context.Context, evt *event.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch evt.Kind {
	case event.KindUserMessage:
		// User messages never coalesce with the in-flight run message.
		msg := &event.ChatMessage{
			ID:               uuid.New().String(),
			Content:          evt.Content,
			DisplayedContent: evt.Content,
			IsComplete:       true,
			Kind:             evt.Kind,
			Timestamp:        eventTime(evt),
		}
		a.messages = append(a.messages, msg)
		a.logSession(ctx, evt)

	case event.KindRunStarted:
		a.openRun(evt)
		a.logSession(ctx, evt)

	case event.KindRunResponse:
		run := a.runFor(evt)
		if run.terminal {
			a.dropLate(evt)
			return
		}
		run.msg.Content += evt.Content
		a.reveal.Advance(run.msg)

	case event.KindRunCompleted:
		run := a.runFor(evt)
		if run.terminal {
			return
		}
		run.terminal = true
		run.msg.IsStreaming = false
		run.msg.IsComplete = true
		run.msg.DisplayedContent = run.msg.Content

	case event.KindRunError, event.KindError, event.KindCancelled:
		run := a.runFor(evt)
		if run.terminal {
			return
		}
		run.terminal = true
		run.msg.IsStreaming = false
		run.msg.IsComplete = true
		// Partial content is preserved; an error with no accumulated text
		// surfaces the event's own content as the message body.
		if run.msg.Content == "" {
			run.msg.Content = evt.Content
		}
		run.msg.DisplayedContent = run.msg.Content
		run.msg.Kind = evt.Kind

	case event.KindUpdatingMemory, event.KindToolCallStarted:
		// Status-only events: surfaced by the presentation layer, no
		// transcript mutation.
		a.logger.Debug("status event",
			"kind", evt.Kind,
			"run_id", evt.RunID)
	}
}

// Tick advances the reveal of every message whose displayed text still lags
// its content. It reports whether any message changed, so a renderer can
// stop its ticker once everything is revealed.
func (a *Assembler) Tick() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	changed := false
	for _, msg := range a.messages {
		if a.reveal.Advance(msg) {
			changed = true
		}
	}
	return changed
}

// Messages returns a snapshot of the transcript in observation order.
func (a *Assembler) Messages() []event.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]event.ChatMessage, len(a.messages))
	for i, msg := range a.messages {
		out[i] = *msg
	}
	return out
}

// Load replaces the transcript with previously persisted messages, e.g.
// when the user reopens a stored session. Any in-flight run state is
// discarded.
func (a *Assembler) Load(messages []event.ChatMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.messages = make([]*event.ChatMessage, len(messages))
	for i := range messages {
		msg := messages[i]
		a.messages[i] = &msg
	}
	a.runs = make(map[string]*runState)
}

// openRun creates a fresh streaming message shell for evt's run and appends
// it to the transcript.
func (a *Assembler) openRun(evt *event.Event) *runState {
	msg := &event.ChatMessage{
		ID:          uuid.New().String(),
		IsStreaming: true,
		Kind:        event.KindRunResponse,
		Timestamp:   eventTime(evt),
	}
	run := &runState{msg: msg}
	a.runs[evt.RunID] = run
	a.messages = append(a.messages, msg)
	return run
}

// runFor returns the state for evt's run, opening a shell if the run was
// never started. Content arriving without a RunStarted still accumulates
// rather than being lost.
func (a *Assembler) runFor(evt *event.Event) *runState {
	if run, ok := a.runs[evt.RunID]; ok {
		return run
	}
	return a.openRun(evt)
}

// dropLate logs an event that arrived after its run reached a terminal state.
func (a *Assembler) dropLate(evt *event.Event) {
	a.logger.Debug("dropping event for terminal run",
		"kind", evt.Kind,
		"run_id", evt.RunID)
}

// logSession records a conversation-starting event in the session index.
func (a *Assembler) logSession(ctx context.Context, evt *event.Event) {
	if a.sessions == nil {
		return
	}
	a.sessions.LogMessageToSession(ctx, evt, "")
}

// eventTime returns the event's timestamp, falling back to the local clock
// when the source omitted it.
func eventTime(evt *event.Event) int64 {
	if evt.CreatedAt > 0 {
		return evt.CreatedAt
	}
	return event.Now()
}
