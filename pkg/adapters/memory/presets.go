package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/hexwire/pkg/domain"
)

// PresetStore implements ports.PresetStore in memory.
type PresetStore struct {
	data map[string]domain.Preset
	mu   sync.RWMutex
}

// NewPresetStore creates a store seeded with presets.
func NewPresetStore(presets ...domain.Preset) *PresetStore {
	s := &PresetStore{data: make(map[string]domain.Preset)}
	for _, p := range presets {
		s.data[p.Name] = p
	}
	return s
}

func (s *PresetStore) Save(ctx context.Context, preset domain.Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[preset.Name] = preset
	return nil
}

func (s *PresetStore) Get(ctx context.Context, name string) (domain.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[name]
	if !ok {
		return domain.Preset{}, domain.ErrPresetNotFound
	}
	return p, nil
}

// List returns presets sorted by name.
func (s *PresetStore) List(ctx context.Context) ([]domain.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Preset, 0, len(s.data))
	for _, p := range s.data {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.Preset) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}
