package state

import (
	"context"
)

// Repository is a small key-value store for persisted client state
// (currently the session token and its bookkeeping).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
