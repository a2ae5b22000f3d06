package ports

import (
	"context"

	"github.com/aretw0/hexwire/pkg/domain"
)

// PresetStore saves and loads named transactions.
type PresetStore interface {
	Save(ctx context.Context, preset domain.Preset) error

	// Get returns domain.ErrPresetNotFound if the preset does not exist.
	Get(ctx context.Context, name string) (domain.Preset, error)

	List(ctx context.Context) ([]domain.Preset, error)
}
