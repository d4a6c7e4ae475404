package storage

import "context"

// Store commits rendered artifacts to durable storage.
type Store interface {
	// Put writes data under name inside the configured container, fully
	// replacing any existing artifact, and returns a durable locator.
	Put(ctx context.Context, name string, data []byte) (string, error)
}
