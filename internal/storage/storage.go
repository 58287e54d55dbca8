package storage

import (
	"context"
	"errors"
)

// Store is the durable key/value substrate shared by every open view.
// Implementations must serialize writes per key; readers observe either
// the old or the new value, never a torn one.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var ErrKeyNotFound = errors.New("key not found")
