// ABOUTME: Tests for session title derivation
// ABOUTME: Validates word truncation, ellipsis, and date-based fallbacks

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSessionTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "seven words truncate with ellipsis",
			message: "hello world this is a long test message",
			want:    "hello world this is a long...",
		},
		{
			name:    "exactly six words keep ellipsis",
			message: "one two three four five six",
			want:    "one two three four five six...",
		},
		{
			name:    "short message used as-is",
			message: "hello world",
			want:    "hello world",
		},
		{
			name:    "extra whitespace collapsed",
			message: "  hello   world  ",
			want:    "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSessionTitle(tt.message))
		})
	}
}

func TestGenerateSessionTitle_Fallbacks(t *testing.T) {
	wantPrefix := "Chat " + time.Now().Format("2006-01-02")

	assert.Equal(t, wantPrefix, GenerateSessionTitle(""))
	// Purely-whitespace messages fall back to the date title too.
	assert.Equal(t, wantPrefix, GenerateSessionTitle("   \t  "))
}
