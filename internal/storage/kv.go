// ABOUTME: KV interface and sentinel errors for durable session persistence
// ABOUTME: String-keyed get/set/remove with explicit absence signalling

package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or was
// removed. Absence is an expected condition, not a failure.
var ErrNotFound = errors.New("key not found")

// KV is the durable key-value surface the session store writes through to.
// Implementations must treat Set as a full overwrite and Remove of a
// missing key as a no-op.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
