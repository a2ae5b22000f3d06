package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/hexwire/pkg/domain"
)

// CrashSink implements ports.FaultSink by writing one text file per crash
// (crash_YYYY-MM-DD_HH-MM-SS.log) into a fixed directory.
type CrashSink struct {
	dir string
	mu  sync.Mutex
}

// NewCrashSink creates a sink rooted at dir. The directory is created if missing.
func NewCrashSink(dir string) (*CrashSink, error) {
	if dir == "" {
		return nil, domain.ErrStoreDirRequired
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure crash directory: %w", err)
	}
	return &CrashSink{dir: dir}, nil
}

// Dir returns the directory the sink writes to.
func (s *CrashSink) Dir() string {
	return s.dir
}

// Record appends the report to the file named after its timestamp. Two crashes in
// the same second share a file.
func (s *CrashSink) Record(ctx context.Context, report domain.CrashReport) error {
	path := filepath.Join(s.dir, "crash_"+report.Time.Format("2006-01-02_15-04-05")+".log")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Crash time: %s\n", report.Time.Format("2006-01-02 15:04:05.000 -0700"))
	fmt.Fprintf(&sb, "\nFault:\n%s\n", report.Fault)
	if report.Location != "" {
		fmt.Fprintf(&sb, "\nLocation:\n%s\n", report.Location)
	}
	fmt.Fprintf(&sb, "\nStack:\n%s\n", report.Stack)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create crash file: %w", err)
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write crash file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to fsync crash file: %w", err)
	}
	return f.Close()
}

// Recent lists regular files in the directory, newest modification first.
func (s *CrashSink) Recent(ctx context.Context, limit int) ([]domain.CrashFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.CrashFile{}, nil
		}
		return nil, fmt.Errorf("failed to list crash files: %w", err)
	}

	files := make([]domain.CrashFile, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, domain.CrashFile{
			Name:    e.Name(),
			Path:    filepath.Join(s.dir, e.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	slices.SortFunc(files, func(a, b domain.CrashFile) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		return strings.Compare(b.Name, a.Name)
	})

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}
