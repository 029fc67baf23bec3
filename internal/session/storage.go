package session

import (
	"context"
	"errors"
)

// ErrIncompleteSession is returned when a caller tries to persist a session
// with missing fields.
var ErrIncompleteSession = errors.New("session: all four fields are required")

// Storage is the persistent key-value area of a single browser context.
// Multi-key operations are applied atomically.
type Storage interface {
	// Load returns the stored values for keys. Missing keys are absent from the map.
	Load(ctx context.Context, keys ...string) (map[string]string, error)
	// Save writes every value in one operation.
	Save(ctx context.Context, values map[string]string) error
	// Remove deletes every key in one operation.
	Remove(ctx context.Context, keys ...string) error
}

// Provider hands out the storage area of a browser context.
type Provider interface {
	For(contextID string) Storage
}
