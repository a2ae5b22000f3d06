package ports

import (
	"context"

	"github.com/aretw0/hexwire/pkg/domain"
)

// LogStore defines how leveled log entries are persisted and queried.
// Implementations are safe for concurrent use.
type LogStore interface {
	// Append persists one entry. A zero Time is stamped with the current time.
	Append(ctx context.Context, entry domain.LogEntry) error

	// Read returns entries of the current day, newest first, filtered and capped by q.
	Read(ctx context.Context, q domain.LogQuery) ([]domain.LogEntry, error)

	// Clear empties the current day's entries.
	Clear(ctx context.Context) error
}
