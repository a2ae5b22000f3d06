package ports

import (
	"context"

	"github.com/aretw0/hexwire/pkg/domain"
)

// FaultSink persists reports of otherwise fatal faults.
type FaultSink interface {
	// Record persists a single crash report.
	Record(ctx context.Context, report domain.CrashReport) error

	// Recent lists at most limit persisted reports, newest first.
	Recent(ctx context.Context, limit int) ([]domain.CrashFile, error)
}
