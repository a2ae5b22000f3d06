package loam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPresetName is returned for names that cannot be used as a file name.
var ErrInvalidPresetName = errors.New("invalid preset name")

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// PresetStore implements ports.PresetStore on a Loam repository.
// Each preset is a Markdown document with YAML front matter:
//
//	---
//	name: plc-status
//	host: 192.168.1.10
//	port: 502
//	data: 01 03 00 00 00 02
//	---
//	Reads two holding registers.
type PresetStore struct {
	repo  core.Repository
	typed *loam.TypedRepository[PresetMetadata]
}

// NewPresetStore opens (or creates) a preset repository in dir.
func NewPresetStore(dir string) (*PresetStore, error) {
	if dir == "" {
		return nil, domain.ErrStoreDirRequired
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Presets are plain files; no git history is kept.
	repo, err := loam.Init(absPath,
		loam.WithVersioning(false),
		loam.WithForceTemp(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return NewPresetStoreFromRepo(repo), nil
}

// NewPresetStoreFromRepo wraps an existing repository.
func NewPresetStoreFromRepo(repo core.Repository) *PresetStore {
	return &PresetStore{
		repo:  repo,
		typed: loam.NewTypedRepository[PresetMetadata](repo),
	}
}

// Save writes the preset, replacing any preset with the same name.
func (s *PresetStore) Save(ctx context.Context, preset domain.Preset) error {
	if !validName.MatchString(preset.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidPresetName, preset.Name)
	}

	header, err := yaml.Marshal(metadataFor(preset))
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(header)
	sb.WriteString("---\n")
	if preset.Description != "" {
		sb.WriteString(strings.TrimSpace(preset.Description))
		sb.WriteString("\n")
	}

	doc := core.Document{
		ID:      preset.Name + ".md",
		Content: sb.String(),
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("loam save failed for %s: %w", preset.Name, err)
	}
	return nil
}

// Get loads a preset by name.
func (s *PresetStore) Get(ctx context.Context, name string) (domain.Preset, error) {
	if !validName.MatchString(name) {
		return domain.Preset{}, domain.ErrPresetNotFound
	}

	doc, err := s.typed.Get(ctx, name)
	if err != nil {
		// Distinguish "missing" from repository failures by listing.
		presets, lerr := s.List(ctx)
		if lerr == nil && !slices.ContainsFunc(presets, func(p domain.Preset) bool { return p.Name == name }) {
			return domain.Preset{}, domain.ErrPresetNotFound
		}
		return domain.Preset{}, fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	return doc.Data.toPreset(doc.ID, strings.TrimSpace(doc.Content)), nil
}

// List returns every preset, sorted by name.
// Listed documents carry no front matter, so each one is loaded by ID.
func (s *PresetStore) List(ctx context.Context) ([]domain.Preset, error) {
	docs, err := s.typed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	presets := make([]domain.Preset, 0, len(docs))
	for _, listed := range docs {
		if !strings.EqualFold(filepath.Ext(listed.ID), ".md") {
			continue
		}
		name := trimExtension(listed.ID)
		doc, err := s.typed.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
		}
		presets = append(presets, doc.Data.toPreset(listed.ID, strings.TrimSpace(doc.Content)))
	}
	slices.SortFunc(presets, func(a, b domain.Preset) int {
		return strings.Compare(a.Name, b.Name)
	})
	return presets, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
