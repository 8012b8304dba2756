// ABOUTME: Reactive broadcast feed for the current session list
// ABOUTME: Replay-of-latest pub/sub; every publish carries the entire list, never a delta

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 64

// Feed is a broadcast view over the most recently requested cache key's
// session list. Subscribers receive the complete current list on every
// mutation, and the latest emitted value immediately on subscribe.
// Consumers must treat emissions as replace-not-patch.
type Feed struct {
	mu          sync.RWMutex
	subscribers map[string]chan []*Session
	latest      []*Session
	hasLatest   bool
	logger      *slog.Logger
}

// NewFeed creates a feed. Pass nil logger for default.
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		subscribers: make(map[string]chan []*Session),
		logger:      logger.With("component", "feed"),
	}
}

// Subscribe registers a subscriber and returns its channel and subscription
// ID. If a list has already been published, it is delivered immediately.
// The subscription is automatically cleaned up when ctx is cancelled.
func (f *Feed) Subscribe(ctx context.Context) (<-chan []*Session, string) {
	subID := uuid.New().String()
	ch := make(chan []*Session, subscriberBufferSize)

	f.mu.Lock()
	if f.hasLatest {
		ch <- f.latest
	}
	f.subscribers[subID] = ch
	f.mu.Unlock()

	f.logger.Debug("subscriber added", "sub_id", subID)

	go func() {
		<-ctx.Done()
		f.Unsubscribe(subID)
	}()

	return ch, subID
}

// Publish records sessions as the latest value and fans it out to all
// subscribers. Non-blocking: the value is dropped for subscribers whose
// channels are full (they still converge via a later publish).
func (f *Feed) Publish(sessions []*Session) {
	f.mu.Lock()
	f.latest = sessions
	f.hasLatest = true
	targets := make([]chan []*Session, 0, len(f.subscribers))
	for _, ch := range f.subscribers {
		targets = append(targets, ch)
	}
	f.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- sessions:
		default:
			f.logger.Debug("dropped update for slow subscriber",
				"sessions", len(sessions))
		}
	}
}

// Latest returns the most recently published list and whether one exists.
func (f *Feed) Latest() ([]*Session, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest, f.hasLatest
}

// Unsubscribe removes a subscription and closes its channel.
func (f *Feed) Unsubscribe(subID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.subscribers[subID]
	if !ok {
		return
	}

	delete(f.subscribers, subID)
	close(ch)

	f.logger.Debug("subscriber removed", "sub_id", subID)
}

// Close shuts down the feed and closes all subscriber channels.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for subID, ch := range f.subscribers {
		close(ch)
		delete(f.subscribers, subID)
	}

	f.logger.Debug("feed closed")
}
