package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/quic/internal/model"
)

// RedisStore keeps sessions as JSON strings under prefix:id with a TTL, so
// expired sessions disappear without a sweeper.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "quic:sess"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + ":" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (model.Identity, error) {
	var data model.Identity
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return data, ErrNoSession
	}
	if err != nil {
		return data, errors.Wrap(err, "redis get session")
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, errors.Wrap(err, "decode session")
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, data model.Identity, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := s.rdb.SetEx(ctx, s.key(id), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set session")
	}
	return nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return errors.Wrap(err, "redis delete session")
	}
	return nil
}
