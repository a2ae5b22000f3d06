package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// LogStore implements ports.LogStore using one Redis list per day.
// Entries are JSON documents pushed in append order.
type LogStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*LogStore)

// WithTTL sets the expiration of each day's list, refreshed on every append.
func WithTTL(ttl time.Duration) Option {
	return func(s *LogStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. The day ("2006-01-02") is appended to it.
func WithPrefix(prefix string) Option {
	return func(s *LogStore) {
		s.prefix = prefix
	}
}

// WithClock replaces the time source used to stamp entries and pick the day key.
func WithClock(now func() time.Time) Option {
	return func(s *LogStore) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new Redis log store with options.
func New(address, password string, db int, opts ...Option) *LogStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis log store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *LogStore {
	store := &LogStore{
		client: client,
		prefix: "hexwire:logs:",
		ttl:    0, // No expiration by default
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Key returns the list holding the current day's entries.
func (s *LogStore) Key() string {
	return s.prefix + s.now().Format("2006-01-02")
}

// Append pushes the entry onto today's list.
func (s *LogStore) Append(ctx context.Context, entry domain.LogEntry) error {
	if entry.Time.IsZero() {
		entry.Time = s.now()
	}
	entry.Level = domain.NormalizeLevel(entry.Level)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	key := s.Key()
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// Read loads today's list. Members that fail to decode are skipped.
func (s *LogStore) Read(ctx context.Context, q domain.LogQuery) ([]domain.LogEntry, error) {
	vals, err := s.client.LRange(ctx, s.Key(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}

	entries := make([]domain.LogEntry, 0, len(vals))
	for _, v := range vals {
		var entry domain.LogEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return domain.SelectLogs(entries, q), nil
}

// Clear deletes today's list.
func (s *LogStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.Key()).Err(); err != nil {
		return fmt.Errorf("failed to clear redis logs: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *LogStore) Close() error {
	return s.client.Close()
}

// Ping checks that the server is reachable.
func (s *LogStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
