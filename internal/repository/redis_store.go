package repository

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// RedisDocumentStore 每个路径对应一个 key，值为 JSON 字符串
type RedisDocumentStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisDocumentStore(rdb *redis.Client, prefix string) *RedisDocumentStore {
	return &RedisDocumentStore{Client: rdb, Prefix: prefix}
}

func (s *RedisDocumentStore) key(path string) string {
	return s.Prefix + JoinPath(path)
}

func (s *RedisDocumentStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	data, err := s.Client.Get(ctx, s.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisDocumentStore) Set(ctx context.Context, path string, doc []byte) error {
	return s.Client.Set(ctx, s.key(path), doc, 0).Err()
}

func (s *RedisDocumentStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
