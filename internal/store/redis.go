package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/f3rmion/memcard/internal/vocab"
)

const redisKeyPrefix = "memcard:card:"

// RedisCache keeps cards in Redis so several servers can share them.
type RedisCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisCache connects to addr and checks the connection.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*vocab.MemoryCard, error) {
	raw, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var card vocab.MemoryCard
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("decoding cached card: %w", err)
	}
	return &card, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, card *vocab.MemoryCard) error {
	raw, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encoding card: %w", err)
	}
	// A zero ttl means no expiry.
	return c.rdb.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
