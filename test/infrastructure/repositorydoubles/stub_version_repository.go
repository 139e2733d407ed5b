//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
)

// StubVersionRepository implements repositories.VersionRepository with a fixed answer.
type StubVersionRepository struct {
	Version  string
	Err      error
	LookedUp []string
}

var _ repositories.VersionRepository = (*StubVersionRepository)(nil)

func (s *StubVersionRepository) LatestVersion(_ context.Context, name string) (string, error) {
	s.LookedUp = append(s.LookedUp, name)
	return s.Version, s.Err
}
