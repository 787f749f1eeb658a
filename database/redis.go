package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore maps scope/key to "<prefix>:<scope>:<key>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

func OpenRedis(ctx context.Context, addr, password, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(scope, key string) string {
	return redisKey(s.prefix, scope, key)
}

func redisKey(prefix, scope, key string) string {
	if prefix == "" {
		return scope + ":" + key
	}
	return prefix + ":" + scope + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, scope, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.key(scope, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return v, err
}

func (s *RedisStore) Put(ctx context.Context, scope, key string, value []byte) error {
	return s.client.Set(ctx, s.key(scope, key), value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, scope, key string) error {
	return s.client.Del(ctx, s.key(scope, key)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
