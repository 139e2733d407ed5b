package entities

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultManifestPath is the manifest read from the selected branch.
const DefaultManifestPath = "package.json"

// Manifest is an immutable package manifest. It keeps the original JSON bytes
// so updates rewrite a single value and leave key order and formatting alone.
type Manifest struct {
	path  string
	raw   []byte
	order []DependencyGroup
}

// NewManifest parses the manifest content read from path.
func NewManifest(path string, content []byte) (*Manifest, error) {
	if !gjson.ValidBytes(content) || !gjson.ParseBytes(content).IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, path)
	}
	return &Manifest{
		path:  path,
		raw:   bytes.Clone(content),
		order: DefaultGroupOrder(),
	}, nil
}

// Path returns the repository path the manifest was read from.
func (m *Manifest) Path() string {
	return m.path
}

// Bytes returns a copy of the manifest content.
func (m *Manifest) Bytes() []byte {
	return bytes.Clone(m.raw)
}

// GroupOrder returns the lookup precedence of the dependency groups.
func (m *Manifest) GroupOrder() []DependencyGroup {
	return slices.Clone(m.order)
}

// WithGroupOrder returns a copy that searches the groups in the given order.
func (m *Manifest) WithGroupOrder(order []DependencyGroup) *Manifest {
	if len(order) == 0 {
		order = DefaultGroupOrder()
	}
	return &Manifest{path: m.path, raw: m.raw, order: slices.Clone(order)}
}

// Lookup returns the version range recorded for the dependency in the first
// group that lists it.
func (m *Manifest) Lookup(name string) (string, bool) {
	dependency, ok := m.Find(name)
	if !ok {
		return "", false
	}
	return dependency.Range, true
}

// Find returns the first entry for the dependency following the group order.
func (m *Manifest) Find(name string) (Dependency, bool) {
	if name == "" {
		return Dependency{}, false
	}
	for _, group := range m.order {
		value := gjson.GetBytes(m.raw, groupPath(group, name))
		if value.Type == gjson.String && value.Str != "" {
			return Dependency{Name: name, Group: group, Range: value.Str}, true
		}
	}
	return Dependency{}, false
}

// Dependencies lists every resolvable entry, deduplicated by name with the
// group order deciding which entry wins.
func (m *Manifest) Dependencies() []Dependency {
	seen := make(map[string]bool)
	var dependencies []Dependency
	for _, group := range m.order {
		gjson.GetBytes(m.raw, string(group)).ForEach(func(key, value gjson.Result) bool {
			if seen[key.Str] || value.Type != gjson.String || value.Str == "" {
				return true
			}
			seen[key.Str] = true
			dependencies = append(dependencies, Dependency{Name: key.Str, Group: group, Range: value.Str})
			return true
		})
	}
	return dependencies
}

// Update returns a copy of the manifest with the dependency pinned to
// "^"+version in the group Lookup resolves it from. The receiver is never modified.
func (m *Manifest) Update(name, version string) (*Manifest, error) {
	dependency, ok := m.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDependencyNotFound, name)
	}

	raw, err := sjson.SetBytes(bytes.Clone(m.raw), groupPath(dependency.Group, name), "^"+version)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s in %s: %w", name, m.path, err)
	}
	return &Manifest{path: m.path, raw: raw, order: slices.Clone(m.order)}, nil
}

func groupPath(group DependencyGroup, name string) string {
	return string(group) + "." + gjson.Escape(name)
}
