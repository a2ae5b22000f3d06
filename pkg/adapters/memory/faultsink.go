package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/hexwire/pkg/domain"
)

// FaultSink implements ports.FaultSink in memory, for tests and ephemeral runs.
type FaultSink struct {
	reports []domain.CrashReport
	mu      sync.RWMutex
}

// NewFaultSink creates an empty sink.
func NewFaultSink() *FaultSink {
	return &FaultSink{}
}

func (s *FaultSink) Record(ctx context.Context, report domain.CrashReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

func (s *FaultSink) Recent(ctx context.Context, limit int) ([]domain.CrashFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]domain.CrashFile, 0, len(s.reports))
	for i := len(s.reports) - 1; i >= 0; i-- {
		r := s.reports[i]
		name := fmt.Sprintf("crash_%s.log", r.Time.Format("2006-01-02_15-04-05"))
		files = append(files, domain.CrashFile{
			Name:    name,
			Path:    "memory://" + name,
			ModTime: r.Time,
			Size:    int64(len(r.Fault) + len(r.Stack)),
		})
	}
	slices.SortStableFunc(files, func(a, b domain.CrashFile) int {
		return b.ModTime.Compare(a.ModTime)
	})
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

// Reports returns a copy of everything recorded, oldest first.
func (s *FaultSink) Reports() []domain.CrashReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reports)
}
