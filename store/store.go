// Package store defines the key-value contract that backs arrays and
// groups, and provides memory, filesystem and HTTP backends.
//
// Keys are opaque strings with "/"-delimited hierarchical structure
// matching node nesting and chunk indices. Absence is a defined outcome,
// not a failure: Get and Delete report a missing key with ErrNotFound,
// which callers translate to fill-value semantics rather than errors.
package store

import (
	"context"
	"os"
)

// ErrNotFound is returned when a key does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction over the backing key-value substrate.
//
// A Put that returns nil makes an immediately subsequent Get on the same
// key observe the new bytes or a later write; no stale reads after a
// locally observed success. Implementations must be safe for concurrent
// use; writes to the same key race at the store layer.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores data under key, replacing any existing value.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes key, returning ErrNotFound if it does not exist.
	Delete(ctx context.Context, key string) error
	// List returns the sorted keys beginning with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
