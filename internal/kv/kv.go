// Package kv defines the key-value blob store the ledger persists into.
// Implementations return errors; the caller decides whether persistence
// failures matter. The ledger treats them as best-effort and stays
// authoritative in memory.
package kv

import "context"

// Store persists opaque blobs under string keys.
type Store interface {
	// Load returns the blob stored under key, or ok=false when absent.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Save stores value under key, replacing any previous blob.
	Save(ctx context.Context, key string, value []byte) error

	Close() error
}

// Noop is the store used when no backing storage is available, for
// example in non-interactive execution. Load always reports absence and
// Save discards the blob.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Load(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Save(context.Context, string, []byte) error { return nil }

func (Noop) Close() error { return nil }
