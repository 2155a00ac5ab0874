package databar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// NullEvent is the display name of the reserved "unlabeled" type.
	NullEvent = "Ø"
	// NullKey is the default key of the reserved "unlabeled" type.
	NullKey TypeKey = 0
)

// TypeKey identifies a label type within a stream's EventMap.
type TypeKey = int

// LabelScheme is the static configuration of one label stream: its name,
// the initial type vocabulary and optional source metadata.
type LabelScheme struct {
	Workspace string             `yaml:"workspace" json:"workspace,omitempty"`
	Name      string             `yaml:"name" json:"name"`
	EventMap  map[TypeKey]string `yaml:"event_map" json:"event_map"`
	NullLabel TypeKey            `yaml:"null_label" json:"null_label,omitempty"`
	Path      string             `yaml:"path" json:"path,omitempty"`
	Video     string             `yaml:"video" json:"video,omitempty"`
}

// LoadScheme reads a label scheme from a YAML or JSON file, chosen by
// extension (.json is JSON, anything else YAML).
func LoadScheme(path string) (*LabelScheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scheme: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseSchemeJSON(data)
	}
	return ParseSchemeYAML(data)
}

// ParseSchemeYAML decodes a label scheme from YAML.
func ParseSchemeYAML(data []byte) (*LabelScheme, error) {
	var s LabelScheme
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scheme yaml: %w", err)
	}
	return s.validate()
}

// ParseSchemeJSON decodes a label scheme from JSON.
func ParseSchemeJSON(data []byte) (*LabelScheme, error) {
	var s LabelScheme
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scheme json: %w", err)
	}
	return s.validate()
}

func (s *LabelScheme) validate() (*LabelScheme, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("parse scheme: missing name")
	}
	for k := range s.EventMap {
		if k < 0 {
			return nil, fmt.Errorf("parse scheme: negative type key %d", k)
		}
	}
	if s.EventMap == nil {
		s.EventMap = make(map[TypeKey]string)
	}
	return s, nil
}

// HasLabels reports whether the scheme points at a label file.
func (s *LabelScheme) HasLabels() bool { return s.Path != "" }

// InvEventMap returns the name → key inversion of the event map.
func (s *LabelScheme) InvEventMap() map[string]TypeKey {
	inv := make(map[string]TypeKey, len(s.EventMap))
	for k, name := range s.EventMap {
		inv[name] = k
	}
	return inv
}

// LabelKey looks up the key registered for a type name.
func (s *LabelScheme) LabelKey(name string) (TypeKey, bool) {
	k, ok := s.InvEventMap()[name]
	return k, ok
}
