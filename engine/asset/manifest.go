package asset

import (
	"fmt"
	"path"
)

// MapEntry describes one map of the world manifest. Path is relative to the manifest.
type MapEntry struct {
	Name           string  `yaml:"name"`
	Path           string  `yaml:"path"`
	CollisionLayer string  `yaml:"collision_layer"`
	SpawnX         float64 `yaml:"spawn_x"`
	SpawnY         float64 `yaml:"spawn_y"`
}

type manifestFile struct {
	Maps []MapEntry `yaml:"maps"`
}

// Manifest holds the map entries indexed by name, in file order.
type Manifest struct {
	maps   []MapEntry
	byName map[string]int
}

// LoadManifest reads a YAML map list and resolves every map path against the manifest's directory.
func LoadManifest(load *Load, p string) (*Manifest, error) {
	var f manifestFile
	if err := load.Yaml(p, &f); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", p, err)
	}

	dir := path.Dir(p)
	m := &Manifest{
		maps:   make([]MapEntry, 0, len(f.Maps)),
		byName: make(map[string]int, len(f.Maps)),
	}
	for _, e := range f.Maps {
		if e.Name == "" || e.Path == "" {
			return nil, fmt.Errorf("manifest %s: map entry needs a name and a path", p)
		}
		if _, dup := m.byName[e.Name]; dup {
			return nil, fmt.Errorf("manifest %s: duplicate map %q", p, e.Name)
		}
		e.Path = path.Join(dir, e.Path)
		m.byName[e.Name] = len(m.maps)
		m.maps = append(m.maps, e)
	}
	return m, nil
}

func (m *Manifest) Get(name string) (MapEntry, bool) {
	i, ok := m.byName[name]
	if !ok {
		return MapEntry{}, false
	}
	return m.maps[i], true
}

func (m *Manifest) Maps() []MapEntry {
	return m.maps
}
