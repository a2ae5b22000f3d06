package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Log levels as persisted by the log stores.
const (
	LevelTrace = "TRACE"
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogTimeLayout is the wire and display layout of LogEntry.Time.
const LogTimeLayout = "2006-01-02 15:04:05.000"

// DefaultLogLimit caps reads when the caller does not ask for a limit.
const DefaultLogLimit = 100

// LogEntry is one persisted log line.
type LogEntry struct {
	Time    time.Time
	Level   string
	Source  string
	Message string
}

type logEntryJSON struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

// MarshalJSON renders Time with LogTimeLayout.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	out := logEntryJSON{Level: e.Level, Source: e.Source, Message: e.Message}
	if !e.Time.IsZero() {
		out.Time = e.Time.Format(LogTimeLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses Time with LogTimeLayout in the local time zone.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var in logEntryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = LogEntry{Level: in.Level, Source: in.Source, Message: in.Message}
	if in.Time != "" {
		t, err := time.ParseInLocation(LogTimeLayout, in.Time, time.Local)
		if err != nil {
			return fmt.Errorf("parse log time %q: %w", in.Time, err)
		}
		e.Time = t
	}
	return nil
}

// NormalizeLevel upper-cases a level name and folds its aliases.
// An empty level is treated as INFO.
func NormalizeLevel(level string) string {
	switch l := strings.ToUpper(strings.TrimSpace(level)); l {
	case "":
		return LevelInfo
	case "WARNING":
		return LevelWarn
	case "ERR":
		return LevelError
	default:
		return l
	}
}

// LogQuery selects entries from a log store.
type LogQuery struct {
	// Level keeps only entries of this level. Empty or "all" keeps every level.
	Level string
	// Limit caps the number of entries returned. Zero or less means DefaultLogLimit.
	Limit int
}

// Matches reports whether entry passes the level filter.
func (q LogQuery) Matches(entry LogEntry) bool {
	lvl := strings.TrimSpace(q.Level)
	if lvl == "" || strings.EqualFold(lvl, "all") {
		return true
	}
	return NormalizeLevel(lvl) == NormalizeLevel(entry.Level)
}

// SelectLogs filters entries (given oldest-first, in append order) by q and
// returns them newest-first, capped at the query limit.
func SelectLogs(entries []LogEntry, q LogQuery) []LogEntry {
	out := make([]LogEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if q.Matches(entries[i]) {
			out = append(out, entries[i])
		}
	}

	slices.SortStableFunc(out, func(a, b LogEntry) int {
		switch {
		case a.Time.IsZero() && b.Time.IsZero():
			return 0
		case a.Time.IsZero():
			return 1
		case b.Time.IsZero():
			return -1
		}
		return b.Time.Compare(a.Time)
	})

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
