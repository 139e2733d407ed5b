package gitlocal

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
)

// GitRemoteRepository reads remotes from a local checkout with go-git.
type GitRemoteRepository struct{}

// NewGitRemoteRepository creates a GitRemoteRepository.
func NewGitRemoteRepository() *GitRemoteRepository {
	return &GitRemoteRepository{}
}

func (it *GitRemoteRepository) OriginURL(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}

	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %q: %w", git.DefaultRemoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.New("remote " + git.DefaultRemoteName + " has no URL")
	}
	return urls[0], nil
}

var _ repositories.RemoteRepository = (*GitRemoteRepository)(nil)
