package database

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a key has no value in its scope.
var ErrNotFound = errors.New("key not found")

// KV is a durable key-value store partitioned by scope.
type KV interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Put(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
	Close() error
}

// Bucket is a KV bound to one scope.
type Bucket interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type scoped struct {
	kv    KV
	scope string
}

// Scope binds kv to a single scope, usually a browser profile id.
func Scope(kv KV, scope string) Bucket {
	return &scoped{kv: kv, scope: scope}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.kv.Get(ctx, s.scope, key)
}

func (s *scoped) Put(ctx context.Context, key string, value []byte) error {
	return s.kv.Put(ctx, s.scope, key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.scope, key)
}

func SaveJSON[T any](ctx context.Context, b Bucket, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return b.Put(ctx, key, data)
}

func GetJSON[T any](ctx context.Context, b Bucket, key string) (*T, error) {
	data, err := b.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
