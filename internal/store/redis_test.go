package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/f3rmion/memcard/internal/vocab"
)

func TestRedisCachePutGet(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := OpenCache(ctx, Options{Backend: "redis", RedisAddr: mr.Addr(), TTL: time.Hour})
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	card := &vocab.MemoryCard{Word: "lucid", Meaning: "clear", PartOfSpeech: "adj."}
	if err := c.Put(ctx, "k1", card); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != *card {
		t.Errorf("got %+v, want %+v", got, card)
	}
	if ttl := mr.TTL(redisKeyPrefix + "k1"); ttl != time.Hour {
		t.Errorf("expected a one hour ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := c.Get(ctx, "k1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected the card to expire, got %v", err)
	}
}

func TestRedisCacheWithoutTTLKeepsCards(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(ctx, mr.Addr(), 0)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if err := c.Put(ctx, "k", &vocab.MemoryCard{Word: "w", Meaning: "m"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	mr.FastForward(24 * 365 * time.Hour)
	if _, err := c.Get(ctx, "k"); err != nil {
		t.Errorf("card without ttl should stay cached: %v", err)
	}
}

func TestRedisCacheCorruptValue(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(ctx, mr.Addr(), 0)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	mr.Set(redisKeyPrefix+"bad", "not json")
	if _, err := c.Get(ctx, "bad"); err == nil || errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected a decode error, got %v", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisCache(context.Background(), addr, 0); err == nil {
		t.Error("expected a ping error for a closed server")
	}
}
