package repositories

import (
	"context"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
)

// HostingRepository abstracts the repository hosting service the pull request is opened on.
type HostingRepository interface {
	// WorkspaceExists fails with entities.ErrWorkspaceNotFound when the workspace is not accessible.
	WorkspaceExists(ctx context.Context, workspace string) error

	// RepositoryExists fails with entities.ErrRepositoryNotFound when the slug is not in the workspace.
	RepositoryExists(ctx context.Context, workspace, slug string) error

	// ListBranches returns every branch with its head commit hash.
	ListBranches(ctx context.Context, workspace, slug string) ([]entities.Branch, error)

	// ReadFile returns the raw content of path at the given commit.
	ReadFile(ctx context.Context, workspace, slug, commit, path string) ([]byte, error)

	// CreateBranch creates name pointing at fromHash.
	CreateBranch(ctx context.Context, workspace, slug, name, fromHash string) (*entities.Branch, error)

	// CommitFile commits a single file on top of the input's parent commit.
	CommitFile(ctx context.Context, workspace, slug string, input entities.CommitInput) error

	// CreatePullRequest opens a pull request and returns it with its web URL.
	CreatePullRequest(
		ctx context.Context,
		workspace, slug string,
		input entities.PullRequestInput,
	) (*entities.PullRequest, error)
}

// HostingFactory builds a HostingRepository authenticated with the given credentials.
type HostingFactory func(settings entities.BitbucketSettings, credentials entities.Credentials) HostingRepository
