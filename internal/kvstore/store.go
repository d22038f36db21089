// Package kvstore persists JSON documents under string keys inside a
// namespace. It stands in for the browser's local storage.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns the raw document stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
