// Package db holds the storage facade behind the fact cache.
package db

import (
	"context"
	"time"
)

// Store is a blob store with connectivity checks. Redis and Valkey both satisfy it.
type Store interface {
	Pinger
	BlobStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BlobStore keeps opaque values under string keys.
type BlobStore interface {
	// Load returns ErrKeyNotFound for missing or expired keys.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save stores value; a non-positive ttl stores it without expiry.
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Evict removes keys and reports how many existed.
	Evict(ctx context.Context, keys ...string) (int64, error)
}
