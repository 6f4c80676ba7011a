// ABOUTME: Registry loads persona JSON files and answers mode-validity lookups
// ABOUTME: Missing or malformed default personas are fatal at startup
package persona

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrLoad indicates a required persona file is missing or malformed.
var ErrLoad = errors.New("persona load failed")

// Default persona sets per mode. Every set must load for the engine to
// start.
var defaults = map[string][]string{
	"pacify": {"pacificia", "sage"},
	"defy":   {"void", "rebel"},
}

// Registry serves read-only persona lookups keyed by mode and name.
type Registry struct {
	byMode map[string]map[string]*Persona
}

// LoadRegistry reads all persona files under dir, laid out as
// <dir>/<mode>/<name>.json. All default personas must be present.
func LoadRegistry(dir string) (*Registry, error) {
	r := &Registry{byMode: make(map[string]map[string]*Persona)}

	for mode, names := range defaults {
		r.byMode[mode] = make(map[string]*Persona)
		for _, name := range names {
			path := filepath.Join(dir, mode, name+".json")
			p, err := loadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %s/%s: %v", ErrLoad, mode, name, err)
			}
			r.byMode[mode][strings.ToLower(p.Name)] = p
		}

		// Pick up any extra persona files alongside the defaults
		entries, err := os.ReadDir(filepath.Join(dir, mode))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".json")
			if _, ok := r.byMode[mode][name]; ok {
				continue
			}
			p, err := loadFile(filepath.Join(dir, mode, entry.Name()))
			if err != nil {
				continue
			}
			r.byMode[mode][strings.ToLower(p.Name)] = p
		}
	}

	return r, nil
}

func loadFile(path string) (*Persona, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	var p Persona
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("persona has no name")
	}
	return &p, nil
}

// Get returns the persona by mode and name.
func (r *Registry) Get(mode, name string) (*Persona, bool) {
	personas, ok := r.byMode[mode]
	if !ok {
		return nil, false
	}
	p, ok := personas[strings.ToLower(name)]
	return p, ok
}

// ValidForMode reports whether name is a persona valid in mode.
func (r *Registry) ValidForMode(mode, name string) bool {
	_, ok := r.Get(mode, name)
	return ok
}

// Names returns the sorted persona names for a mode.
func (r *Registry) Names(mode string) []string {
	personas, ok := r.byMode[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(personas))
	for name := range personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
