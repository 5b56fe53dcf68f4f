package store

import "context"

// Store is a local key-value snapshot store. Values are opaque JSON
// blobs; LoadSnapshot returns (nil, nil) for a key that has never been
// written.
type Store interface {
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
	SaveSnapshot(ctx context.Context, key string, data []byte) error

	Close() error
}
