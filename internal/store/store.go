package store

import (
	"context"
	"errors"
)

// Store is durable key/value storage that survives restarts. The cart is
// its only writer; other components must go through the cart.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
