package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"openroutersidebar/internal/core"
	"openroutersidebar/internal/util"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON strings under Prefix+ID with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisStoreConfig Redis session store config
type RedisStoreConfig struct {
	URL    string
	Prefix string
	TTL    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(config RedisStoreConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = core.SessionRedisPrefix
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = core.SessionTTL
	}

	return &RedisStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (rs *RedisStore) key(id string) string {
	return rs.prefix + id
}

func (rs *RedisStore) Load(ctx context.Context, id string) (*core.Session, error) {
	val, err := rs.client.Get(ctx, rs.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess core.Session
	if err := util.UnmarshalJSON(val, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (rs *RedisStore) Save(ctx context.Context, sess *core.Session) error {
	data, err := util.MarshalJSON(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return rs.client.Set(ctx, rs.key(sess.ID), data, rs.ttl).Err()
}

func (rs *RedisStore) Delete(ctx context.Context, id string) error {
	return rs.client.Del(ctx, rs.key(id)).Err()
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
