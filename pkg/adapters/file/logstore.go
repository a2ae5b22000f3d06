package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05.000"
)

// DefaultSource tags entries appended without a source.
const DefaultSource = "hexwire"

// LogStore implements ports.LogStore with one text file per day
// (app_YYYY-MM-DD.log) in a fixed directory.
type LogStore struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

// LogStoreOption configures a LogStore.
type LogStoreOption func(*LogStore)

// WithClock replaces the time source used for stamping entries and picking the day file.
func WithClock(now func() time.Time) LogStoreOption {
	return func(s *LogStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLogStore creates a store rooted at dir. The directory is created if missing.
func NewLogStore(dir string, opts ...LogStoreOption) (*LogStore, error) {
	if dir == "" {
		return nil, domain.ErrStoreDirRequired
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure log directory: %w", err)
	}
	s := &LogStore{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory the store writes to.
func (s *LogStore) Dir() string {
	return s.dir
}

// Path returns the file holding the current day's entries.
func (s *LogStore) Path() string {
	return filepath.Join(s.dir, "app_"+s.now().Format(dateLayout)+".log")
}

// Append writes one line in the form "[date][time][LEVEL][source] message".
func (s *LogStore) Append(ctx context.Context, entry domain.LogEntry) error {
	if entry.Time.IsZero() {
		entry.Time = s.now()
	}
	line := FormatLine(entry)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return f.Close()
}

// Read parses the current day's file. Lines in neither known format are skipped.
func (s *LogStore) Read(ctx context.Context, q domain.LogQuery) ([]domain.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.LogEntry{}, nil
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var entries []domain.LogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if entry, ok := ParseLine(scanner.Text()); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	return domain.SelectLogs(entries, q), nil
}

// Clear truncates the current day's file.
func (s *LogStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Truncate(s.Path(), 0)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear log file: %w", err)
	}
	return nil
}

// FormatLine renders entry in the bracketed log format on a single line.
func FormatLine(entry domain.LogEntry) string {
	source := entry.Source
	if source == "" {
		source = DefaultSource
	}
	msg := strings.ReplaceAll(entry.Message, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return fmt.Sprintf("[%s][%s][%s][%s] %s",
		entry.Time.Format(dateLayout),
		entry.Time.Format(timeLayout),
		domain.NormalizeLevel(entry.Level),
		source,
		msg,
	)
}

// ParseLine reads a line in either the bracketed format or the legacy
// "date time [LEVEL] message" format.
func ParseLine(line string) (domain.LogEntry, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.HasPrefix(line, "[") {
		return parseBracketed(line)
	}
	return parseLegacy(line)
}

func parseBracketed(line string) (domain.LogEntry, bool) {
	parts := strings.SplitN(line, "]", 5)
	if len(parts) < 4 {
		return domain.LogEntry{}, false
	}
	date := strings.TrimPrefix(parts[0], "[")
	clock := strings.TrimPrefix(parts[1], "[")
	level := strings.TrimPrefix(parts[2], "[")

	entry := domain.LogEntry{Level: level}
	if len(parts) == 5 {
		entry.Source = strings.TrimPrefix(parts[3], "[")
		entry.Message = strings.TrimLeft(parts[4], " ")
	} else {
		entry.Message = strings.TrimSpace(strings.TrimPrefix(parts[3], "["))
	}
	entry.Time = parseTime(date, clock)
	return entry, true
}

func parseLegacy(line string) (domain.LogEntry, bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return domain.LogEntry{}, false
	}
	rest := parts[2]
	start := strings.Index(rest, "[")
	end := strings.Index(rest, "]")
	if start < 0 || end < start {
		return domain.LogEntry{}, false
	}
	return domain.LogEntry{
		Time:    parseTime(parts[0], parts[1]),
		Level:   rest[start+1 : end],
		Message: strings.TrimLeft(rest[end+1:], " "),
	}, true
}

// parseTime returns the zero time when the stamp cannot be parsed, which sorts
// the entry last.
func parseTime(date, clock string) time.Time {
	for _, layout := range []string{timeLayout, "15:04:05"} {
		t, err := time.ParseInLocation(dateLayout+" "+layout, date+" "+clock, time.Local)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}
