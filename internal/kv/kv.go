package kv

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal key-value interface over the durable session storage.
// Reads never mutate; only the owning store writes its own keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
