package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
)

// LogStore implements ports.LogStore in memory.
// Safe for concurrent use.
type LogStore struct {
	entries []storedEntry
	mu      sync.RWMutex
}

// storedEntry remembers the day an entry was appended, which is the day file it
// would have landed in on disk.
type storedEntry struct {
	day   string
	entry domain.LogEntry
}

func dayOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewLogStore creates a new in-memory log store.
func NewLogStore() *LogStore {
	return &LogStore{}
}

// Append stores the entry, stamping a zero Time with the current time.
func (s *LogStore) Append(ctx context.Context, entry domain.LogEntry) error {
	now := time.Now()
	if entry.Time.IsZero() {
		entry.Time = now
	}
	entry.Level = domain.NormalizeLevel(entry.Level)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, storedEntry{day: dayOf(now), entry: entry})
	return nil
}

// Read returns the current day's entries, newest first.
func (s *LogStore) Read(ctx context.Context, q domain.LogQuery) ([]domain.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := dayOf(time.Now())
	today := make([]domain.LogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.day == day {
			today = append(today, e.entry)
		}
	}
	return domain.SelectLogs(today, q), nil
}

// Clear drops every entry.
func (s *LogStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
