package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or expired
var ErrNotFound = errors.New("cache: key not found")

// SessionStore is a session-scoped key-value capability. Editor state is
// persisted under keys namespaced by transcription id so reloads within a
// session keep unsaved view preferences.
type SessionStore interface {
	// Get retrieves a value; returns ErrNotFound when absent or expired
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with an expiration
	Set(ctx context.Context, key, value string, expiration time.Duration) error

	// Delete removes a key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}
