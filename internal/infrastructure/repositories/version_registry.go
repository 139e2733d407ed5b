package repositories

import (
	"fmt"
	"slices"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	domainRepos "github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
)

// VersionFactory is a constructor function that creates a VersionRepository from the registry settings.
type VersionFactory func(settings entities.RegistrySettings) domainRepos.VersionRepository

// VersionRegistry manages all registered latest-version lookups.
type VersionRegistry struct {
	factories map[string]VersionFactory
}

// NewVersionRegistry creates an empty version registry.
func NewVersionRegistry() *VersionRegistry {
	return &VersionRegistry{
		factories: make(map[string]VersionFactory),
	}
}

// Register adds a version lookup factory under the given source name (e.g. "npm").
func (r *VersionRegistry) Register(source string, factory VersionFactory) {
	r.factories[source] = factory
}

// Get returns a configured version lookup for settings.Source.
func (r *VersionRegistry) Get(settings entities.RegistrySettings) (domainRepos.VersionRepository, error) {
	factory, ok := r.factories[settings.Source]
	if !ok {
		return nil, fmt.Errorf("unknown registry source: %q (available: %v)", settings.Source, r.Names())
	}
	return factory(settings), nil
}

// Names returns the sorted list of registered source names.
func (r *VersionRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
