//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"encoding/json"
	"maps"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ManifestBuilder helps create test manifests with a fluent interface.
type ManifestBuilder struct {
	*testkit.BaseBuilder
	path   string
	name   string
	groups map[entities.DependencyGroup]map[string]string
	fields map[string]any
}

// NewManifestBuilder creates a new manifest builder with sensible defaults.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		path:        entities.DefaultManifestPath,
		name:        "test-package",
		groups:      map[entities.DependencyGroup]map[string]string{},
		fields:      map[string]any{},
	}
}

// WithPath sets the repository path of the manifest.
func (b *ManifestBuilder) WithPath(path string) *ManifestBuilder {
	b.path = path
	return b
}

// WithName sets the package name field.
func (b *ManifestBuilder) WithName(name string) *ManifestBuilder {
	b.name = name
	return b
}

// WithDependency adds a dependency entry to the given group.
func (b *ManifestBuilder) WithDependency(
	group entities.DependencyGroup, name, versionRange string,
) *ManifestBuilder {
	if b.groups[group] == nil {
		b.groups[group] = map[string]string{}
	}
	b.groups[group][name] = versionRange
	return b
}

// WithField adds an arbitrary top-level field.
func (b *ManifestBuilder) WithField(key string, value any) *ManifestBuilder {
	b.fields[key] = value
	return b
}

// Build creates the manifest (satisfies testkit.Builder interface).
func (b *ManifestBuilder) Build() interface{} {
	return b.BuildManifest()
}

// BuildContent renders the manifest JSON.
func (b *ManifestBuilder) BuildContent() []byte {
	document := map[string]any{"name": b.name}
	maps.Copy(document, b.fields)
	for group, entries := range b.groups {
		document[string(group)] = entries
	}
	content, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		panic(err)
	}
	return content
}

// BuildManifest creates the manifest with a concrete return type.
func (b *ManifestBuilder) BuildManifest() *entities.Manifest {
	manifest, err := entities.NewManifest(b.path, b.BuildContent())
	if err != nil {
		panic(err)
	}
	return manifest
}

// Reset clears the builder state, allowing it to be reused.
func (b *ManifestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.path = entities.DefaultManifestPath
	b.name = "test-package"
	b.groups = map[entities.DependencyGroup]map[string]string{}
	b.fields = map[string]any{}
	return b
}

// Clone creates a deep copy of the ManifestBuilder.
func (b *ManifestBuilder) Clone() testkit.Builder {
	groups := make(map[entities.DependencyGroup]map[string]string, len(b.groups))
	for group, entries := range b.groups {
		groups[group] = maps.Clone(entries)
	}
	return &ManifestBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		path:        b.path,
		name:        b.name,
		groups:      groups,
		fields:      maps.Clone(b.fields),
	}
}
