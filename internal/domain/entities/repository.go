package entities

import (
	"fmt"
	"strings"
)

const bitbucketHost = "bitbucket.org"

// Repository identifies a Bitbucket repository.
type Repository struct {
	Workspace string
	Slug      string
}

// FullName returns the "workspace/slug" form used by the Bitbucket API.
func (r Repository) FullName() string {
	return r.Workspace + "/" + r.Slug
}

// ParseBitbucketRemote extracts the workspace and slug from a bitbucket.org
// remote URL in SSH ("git@bitbucket.org:ws/repo.git"), SSH URL
// ("ssh://git@bitbucket.org/ws/repo.git") or HTTPS form.
func ParseBitbucketRemote(rawURL string) (*Repository, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(rawURL), "/")
	cleaned = strings.TrimSuffix(cleaned, ".git")
	if !strings.Contains(cleaned, bitbucketHost) {
		return nil, fmt.Errorf("unsupported git remote URL: %s", rawURL)
	}

	var pathPart string
	if strings.HasPrefix(cleaned, "git@") {
		_, after, ok := strings.Cut(cleaned, ":")
		if !ok {
			return nil, fmt.Errorf("invalid SSH URL: %s", rawURL)
		}
		pathPart = after
	} else {
		_, after, ok := strings.Cut(cleaned, bitbucketHost)
		if !ok {
			return nil, fmt.Errorf("hostname %s not found in URL: %s", bitbucketHost, rawURL)
		}
		// "bitbucket.org:22/ws/repo" keeps a port in SSH URLs
		after = strings.TrimPrefix(after, ":")
		if idx := strings.Index(after, "/"); idx > 0 {
			after = after[idx:]
		}
		pathPart = strings.TrimPrefix(after, "/")
	}

	parts := strings.Split(pathPart, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" { //nolint:mnd // workspace/slug
		return nil, fmt.Errorf("cannot extract workspace/slug from URL: %s", rawURL)
	}
	return &Repository{Workspace: parts[0], Slug: parts[1]}, nil
}
