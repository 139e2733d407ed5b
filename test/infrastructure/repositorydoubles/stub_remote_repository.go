//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"errors"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
)

// StubRemoteRepository implements repositories.RemoteRepository with a fixed origin URL.
// An empty URL behaves like a directory outside any git checkout.
type StubRemoteRepository struct {
	URL  string
	Dirs []string
}

var _ repositories.RemoteRepository = (*StubRemoteRepository)(nil)

func (s *StubRemoteRepository) OriginURL(dir string) (string, error) {
	s.Dirs = append(s.Dirs, dir)
	if s.URL == "" {
		return "", errors.New("repository does not exist")
	}
	return s.URL, nil
}
