// ABOUTME: Tests for event kind classification and stream event parsing
// ABOUTME: Validates the closed kind set, terminal/error flags, and JSON decoding

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Valid(t *testing.T) {
	for _, k := range []Kind{
		KindUserMessage, KindRunStarted, KindRunResponse, KindRunCompleted,
		KindRunError, KindUpdatingMemory, KindToolCallStarted, KindError,
		KindCancelled,
	} {
		assert.True(t, k.Valid(), "kind %q should be valid", k)
	}

	assert.False(t, Kind("RunPaused").Valid())
	assert.False(t, Kind("").Valid())
}

func TestKind_Terminal(t *testing.T) {
	tests := []struct {
		kind     Kind
		terminal bool
	}{
		{KindRunCompleted, true},
		{KindRunError, true},
		{KindError, true},
		{KindCancelled, true},
		{KindRunStarted, false},
		{KindRunResponse, false},
		{KindUserMessage, false},
		{KindUpdatingMemory, false},
		{KindToolCallStarted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.kind.Terminal(), "kind %q", tt.kind)
	}
}

func TestKind_IsError(t *testing.T) {
	assert.True(t, KindRunError.IsError())
	assert.True(t, KindError.IsError())
	assert.True(t, KindCancelled.IsError())
	assert.False(t, KindRunCompleted.IsError())
	assert.False(t, KindRunResponse.IsError())
}

func TestParseEvent(t *testing.T) {
	data := []byte(`{
		"content": "Hello",
		"agent_id": "web-agent",
		"event": "RunResponse",
		"run_id": "run-1",
		"session_id": "sess-1",
		"created_at": 1700000000000,
		"content_type": "str"
	}`)

	evt, err := ParseEvent(data)
	require.NoError(t, err)

	assert.Equal(t, "Hello", evt.Content)
	assert.Equal(t, "web-agent", evt.AgentID)
	assert.Equal(t, KindRunResponse, evt.Kind)
	assert.Equal(t, "run-1", evt.RunID)
	assert.Equal(t, "sess-1", evt.SessionID)
	assert.Equal(t, int64(1700000000000), evt.CreatedAt)
	assert.Equal(t, ContentTypeStr, evt.ContentType)
}

func TestParseEvent_UnknownKind(t *testing.T) {
	_, err := ParseEvent([]byte(`{"event": "SomethingNew", "run_id": "r"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event kind")
}

func TestParseEvent_MalformedJSON(t *testing.T) {
	_, err := ParseEvent([]byte(`{"event": `))
	require.Error(t, err)
}
