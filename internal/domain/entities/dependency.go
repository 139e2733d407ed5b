package entities

import (
	"fmt"
	"slices"
	"strings"
)

// DependencyGroup is one of the manifest sections that map dependency names to version ranges.
type DependencyGroup string

const (
	DependenciesGroup         DependencyGroup = "dependencies"
	DevDependenciesGroup      DependencyGroup = "devDependencies"
	PeerDependenciesGroup     DependencyGroup = "peerDependencies"
	OptionalDependenciesGroup DependencyGroup = "optionalDependencies"
)

// DefaultGroupOrder is the lookup precedence used when a dependency is listed in several groups.
func DefaultGroupOrder() []DependencyGroup {
	return []DependencyGroup{
		DependenciesGroup,
		DevDependenciesGroup,
		PeerDependenciesGroup,
		OptionalDependenciesGroup,
	}
}

// ParseDependencyGroup validates a group name against the known manifest sections.
func ParseDependencyGroup(name string) (DependencyGroup, error) {
	group := DependencyGroup(strings.TrimSpace(name))
	if !slices.Contains(DefaultGroupOrder(), group) {
		return "", fmt.Errorf("unknown dependency group %q", name)
	}
	return group, nil
}

// ParseGroupOrder converts configured group names into a lookup order without duplicates.
func ParseGroupOrder(names []string) ([]DependencyGroup, error) {
	if len(names) == 0 {
		return DefaultGroupOrder(), nil
	}

	order := make([]DependencyGroup, 0, len(names))
	for _, name := range names {
		group, err := ParseDependencyGroup(name)
		if err != nil {
			return nil, err
		}
		if slices.Contains(order, group) {
			return nil, fmt.Errorf("dependency group %q is listed twice", name)
		}
		order = append(order, group)
	}
	return order, nil
}

// Dependency is a single entry of a manifest dependency group.
type Dependency struct {
	Name  string          // Package name, possibly scoped ("@scope/name")
	Group DependencyGroup // Section the entry was found in
	Range string          // Recorded version range, e.g. "^1.2.0"
}

// DependencyUpdate describes the change proposed for one dependency and the
// pull request that carries it.
type DependencyUpdate struct {
	Dependency  string
	Version     string // Normalized proposed version
	BranchName  string
	Title       string
	Description string
}

// DefaultBranchPrefix is prepended to generated branch names.
const DefaultBranchPrefix = "patch/"

// NewDependencyUpdate derives the branch name, title and description for an update.
func NewDependencyUpdate(branchPrefix, dependency, version string) DependencyUpdate {
	return DependencyUpdate{
		Dependency:  dependency,
		Version:     version,
		BranchName:  fmt.Sprintf("%s%s-%s", branchPrefix, dependency, version),
		Title:       fmt.Sprintf("Update %s to %s", dependency, version),
		Description: fmt.Sprintf("This is automatically-generated PR to update %s to %s", dependency, version),
	}
}
