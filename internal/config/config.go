// Package config loads the boot manifest: which applications the kernel
// image contains and how the host runner logs.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	kconfig "coop/coopos/config"
)

var (
	ErrNoApps        = errors.New("manifest lists no apps")
	ErrTooManyApps   = errors.New("manifest lists too many apps")
	ErrDuplicateName = errors.New("duplicate app name")
	ErrMissingField  = errors.New("missing field")
)

// AppSpec selects one built-in program for a task slot.
type AppSpec struct {
	Name    string         `yaml:"name"`
	Program string         `yaml:"program"`
	Params  map[string]int `yaml:"params,omitempty"`
}

// Manifest is the boot configuration.
type Manifest struct {
	LogLevel  string    `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string    `yaml:"log_format"` // text, json, auto
	Apps      []AppSpec `yaml:"apps"`
}

// DefaultManifest returns the image booted when no manifest is given.
func DefaultManifest() Manifest {
	return Manifest{
		LogLevel:  "info",
		LogFormat: "auto",
		Apps: []AppSpec{
			{Name: "power_3", Program: "power", Params: map[string]int{"base": 3}},
			{Name: "power_5", Program: "power", Params: map[string]int{"base": 5}},
			{Name: "power_7", Program: "power", Params: map[string]int{"base": 7}},
			{Name: "sleep", Program: "sleep", Params: map[string]int{"ms": 3000}},
			{Name: "taskinfo", Program: "taskinfo"},
		},
	}
}

// Load reads and validates the manifest at path. Unset log fields keep
// their defaults.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML manifest.
func Parse(data []byte) (Manifest, error) {
	def := DefaultManifest()
	m := Manifest{LogLevel: def.LogLevel, LogFormat: def.LogFormat}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks the app list against the kernel's task table.
func (m Manifest) Validate() error {
	if len(m.Apps) == 0 {
		return ErrNoApps
	}
	if len(m.Apps) > kconfig.MaxAppNum {
		return fmt.Errorf("%w: %d, limit %d", ErrTooManyApps, len(m.Apps), kconfig.MaxAppNum)
	}
	seen := make(map[string]bool, len(m.Apps))
	for i, a := range m.Apps {
		if a.Name == "" {
			return fmt.Errorf("app %d: %w: name", i, ErrMissingField)
		}
		if a.Program == "" {
			return fmt.Errorf("app %d (%s): %w: program", i, a.Name, ErrMissingField)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

// Marshal encodes the manifest as YAML.
func (m Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}
