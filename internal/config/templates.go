package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/framecut/framecut/internal/model"
)

// DoorTemplate is a saved door order: classification plus measurements
// under a reusable name.
type DoorTemplate struct {
	Name string           `json:"name"`
	Spec model.DoorSpec   `json:"spec"`
	Dims model.Dimensions `json:"dims"`
}

// TemplateStore holds all saved door templates.
type TemplateStore struct {
	Templates []DoorTemplate `json:"templates"`
}

// Find returns the template with the given name.
func (s TemplateStore) Find(name string) (DoorTemplate, bool) {
	for _, t := range s.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return DoorTemplate{}, false
}

// Upsert adds a template, replacing any existing one with the same name.
func (s *TemplateStore) Upsert(t DoorTemplate) {
	for i := range s.Templates {
		if s.Templates[i].Name == t.Name {
			s.Templates[i] = t
			return
		}
	}
	s.Templates = append(s.Templates, t)
}

// DefaultTemplatePath returns the default template store location,
// ~/.framecut/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store TemplateStore) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTemplates reads a template store from a JSON file. A missing file is
// an empty store.
func LoadTemplates(path string) (TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return TemplateStore{}, nil
		}
		return TemplateStore{}, err
	}
	var store TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return TemplateStore{}, err
	}
	return store, nil
}
