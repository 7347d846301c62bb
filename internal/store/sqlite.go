package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/f3rmion/memcard/internal/vocab"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteCache keeps cards in a local SQLite database.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLite opens or creates the cache database at path. A ttl of zero
// keeps cards forever. ":memory:" gives a throwaway cache.
func OpenSQLite(path string, ttl time.Duration) (*SQLiteCache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps an in-memory database alive and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	c := &SQLiteCache{db: db, ttl: ttl, now: time.Now}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating card cache: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memory_cards (
			key TEXT PRIMARY KEY,
			word TEXT NOT NULL,
			card TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_memory_cards_word ON memory_cards(word);`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the card stored under key if it has not expired.
func (c *SQLiteCache) Get(ctx context.Context, key string) (*vocab.MemoryCard, error) {
	var raw, created string
	err := c.db.QueryRowContext(ctx,
		`SELECT card, created_at FROM memory_cards WHERE key = ?`, key,
	).Scan(&raw, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("querying card: %w", err)
	}

	if c.ttl > 0 {
		at, err := time.Parse(time.RFC3339Nano, created)
		if err != nil || c.now().Sub(at) > c.ttl {
			return nil, ErrCacheMiss
		}
	}

	var card vocab.MemoryCard
	if err := json.Unmarshal([]byte(raw), &card); err != nil {
		return nil, fmt.Errorf("decoding cached card: %w", err)
	}
	return &card, nil
}

// Put stores card under key, replacing any previous card.
func (c *SQLiteCache) Put(ctx context.Context, key string, card *vocab.MemoryCard) error {
	raw, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encoding card: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO memory_cards (key, word, card, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET word = excluded.word, card = excluded.card, created_at = excluded.created_at`,
		key, card.Word, string(raw), c.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing card: %w", err)
	}
	return nil
}

// Count returns the number of stored cards.
func (c *SQLiteCache) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memory_cards`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
