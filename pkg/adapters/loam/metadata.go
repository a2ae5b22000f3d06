package loam

import (
	"github.com/aretw0/hexwire/pkg/domain"
)

// PresetMetadata is the front matter of a preset document.
// It uses "mapstructure" tags to match the YAML keys written by Save.
type PresetMetadata struct {
	Name      string `json:"name" mapstructure:"name" yaml:"name"`
	Host      string `json:"host" mapstructure:"host" yaml:"host"`
	Port      int    `json:"port" mapstructure:"port" yaml:"port"`
	Data      string `json:"data" mapstructure:"data" yaml:"data"`
	TimeoutMS int64  `json:"timeout_ms,omitempty" mapstructure:"timeout_ms" yaml:"timeout_ms,omitempty"`
}

func metadataFor(p domain.Preset) PresetMetadata {
	return PresetMetadata{
		Name:      p.Name,
		Host:      p.Host,
		Port:      int(p.Port),
		Data:      p.Payload,
		TimeoutMS: int64(p.TimeoutMS),
	}
}

// toPreset rebuilds a preset; the document body becomes the description.
func (m PresetMetadata) toPreset(id, body string) domain.Preset {
	name := m.Name
	if name == "" {
		name = trimExtension(id)
	}
	p := domain.Preset{
		Name:        name,
		Host:        m.Host,
		Description: body,
		Payload:     m.Data,
	}
	if m.Port > 0 && m.Port <= 65535 {
		p.Port = uint16(m.Port)
	}
	if m.TimeoutMS > 0 {
		p.TimeoutMS = uint64(m.TimeoutMS)
	}
	return p
}
