// ABOUTME: Tests for the reactive session feed
// ABOUTME: Validates replay-of-latest, fan-out, slow-subscriber drops, and unsubscribe

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvSessions(t *testing.T, ch <-chan []*Session) []*Session {
	t.Helper()
	select {
	case sessions := <-ch:
		return sessions
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feed value")
		return nil
	}
}

func TestFeed_ReplayOfLatestOnSubscribe(t *testing.T) {
	feed := NewFeed(nil)
	defer feed.Close()

	feed.Publish([]*Session{{SessionID: "s1"}})

	ch, _ := feed.Subscribe(context.Background())
	got := recvSessions(t, ch)

	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SessionID)
}

func TestFeed_NoReplayBeforeFirstPublish(t *testing.T) {
	feed := NewFeed(nil)
	defer feed.Close()

	ch, _ := feed.Subscribe(context.Background())

	select {
	case v := <-ch:
		t.Fatalf("expected no value before first publish, got %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFeed_FanOut(t *testing.T) {
	feed := NewFeed(nil)
	defer feed.Close()

	ch1, _ := feed.Subscribe(context.Background())
	ch2, _ := feed.Subscribe(context.Background())

	feed.Publish([]*Session{{SessionID: "s1"}, {SessionID: "s2"}})

	assert.Len(t, recvSessions(t, ch1), 2)
	assert.Len(t, recvSessions(t, ch2), 2)
}

func TestFeed_PublishReplacesWholeList(t *testing.T) {
	feed := NewFeed(nil)
	defer feed.Close()

	ch, _ := feed.Subscribe(context.Background())

	feed.Publish([]*Session{{SessionID: "s1"}, {SessionID: "s2"}})
	feed.Publish([]*Session{{SessionID: "s2"}})

	recvSessions(t, ch)
	got := recvSessions(t, ch)

	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].SessionID)
}

func TestFeed_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	feed := NewFeed(nil)
	defer feed.Close()

	// Never drained: the buffer fills and further publishes must not block.
	_, _ = feed.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBufferSize+10; i++ {
			feed.Publish([]*Session{{SessionID: "s"}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestFeed_UnsubscribeOnContextCancel(t *testing.T) {
	feed := NewFeed(nil)
	defer feed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := feed.Subscribe(ctx)
	cancel()

	// Channel closes once the cancellation is observed.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after context cancellation")
		}
	}
}

func TestFeed_Latest(t *testing.T) {
	feed := NewFeed(nil)
	defer feed.Close()

	_, ok := feed.Latest()
	assert.False(t, ok)

	feed.Publish([]*Session{{SessionID: "s1"}})

	latest, ok := feed.Latest()
	require.True(t, ok)
	assert.Equal(t, "s1", latest[0].SessionID)
}
