package repositories

import "context"

// VersionRepository looks up the latest version a package registry publishes for a dependency.
type VersionRepository interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}
