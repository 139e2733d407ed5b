//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
)

// SpyHostingRepository implements repositories.HostingRepository as a configurable spy.
// Calls records every method name in invocation order.
type SpyHostingRepository struct {
	Calls []string

	// --- WorkspaceExists ---
	Workspaces         map[string]bool
	CheckedWorkspaces  []string
	WorkspaceExistsErr error

	// --- RepositoryExists ---
	Repositories        map[string]bool // "workspace/slug"
	CheckedRepositories []string
	RepositoryExistsErr error

	// --- ListBranches ---
	Branches        []entities.Branch
	ListBranchesErr error

	// --- ReadFile ---
	Files       map[string][]byte // "commit:path"
	ReadFileErr error

	// --- CreateBranch ---
	CreatedBranches []string
	CreateBranchErr error

	// --- CommitFile ---
	Commits       []entities.CommitInput
	CommitFileErr error

	// --- CreatePullRequest ---
	CreatedPR   *entities.PullRequest
	CreatePRErr error
	PRInputs    []entities.PullRequestInput
}

var _ repositories.HostingRepository = (*SpyHostingRepository)(nil)

func (s *SpyHostingRepository) WorkspaceExists(_ context.Context, workspace string) error {
	s.Calls = append(s.Calls, "WorkspaceExists")
	s.CheckedWorkspaces = append(s.CheckedWorkspaces, workspace)
	if s.WorkspaceExistsErr != nil {
		return s.WorkspaceExistsErr
	}
	if !s.Workspaces[workspace] {
		return fmt.Errorf("%w: %s", entities.ErrWorkspaceNotFound, workspace)
	}
	return nil
}

func (s *SpyHostingRepository) RepositoryExists(_ context.Context, workspace, slug string) error {
	s.Calls = append(s.Calls, "RepositoryExists")
	fullName := workspace + "/" + slug
	s.CheckedRepositories = append(s.CheckedRepositories, fullName)
	if s.RepositoryExistsErr != nil {
		return s.RepositoryExistsErr
	}
	if !s.Repositories[fullName] {
		return fmt.Errorf("%w: %s", entities.ErrRepositoryNotFound, fullName)
	}
	return nil
}

func (s *SpyHostingRepository) ListBranches(_ context.Context, _, _ string) ([]entities.Branch, error) {
	s.Calls = append(s.Calls, "ListBranches")
	return s.Branches, s.ListBranchesErr
}

func (s *SpyHostingRepository) ReadFile(_ context.Context, _, _, commit, path string) ([]byte, error) {
	s.Calls = append(s.Calls, "ReadFile")
	if s.ReadFileErr != nil {
		return nil, s.ReadFileErr
	}
	if content, ok := s.Files[commit+":"+path]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("file not found: %s at %s", path, commit)
}

func (s *SpyHostingRepository) CreateBranch(
	_ context.Context, _, _, name, fromHash string,
) (*entities.Branch, error) {
	s.Calls = append(s.Calls, "CreateBranch")
	s.CreatedBranches = append(s.CreatedBranches, name+"@"+fromHash)
	if s.CreateBranchErr != nil {
		return nil, s.CreateBranchErr
	}
	return &entities.Branch{Name: name, Hash: fromHash}, nil
}

func (s *SpyHostingRepository) CommitFile(_ context.Context, _, _ string, input entities.CommitInput) error {
	s.Calls = append(s.Calls, "CommitFile")
	s.Commits = append(s.Commits, input)
	return s.CommitFileErr
}

func (s *SpyHostingRepository) CreatePullRequest(
	_ context.Context, workspace, slug string, input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	s.Calls = append(s.Calls, "CreatePullRequest")
	s.PRInputs = append(s.PRInputs, input)
	if s.CreatePRErr != nil {
		return nil, s.CreatePRErr
	}
	if s.CreatedPR != nil {
		return s.CreatedPR, nil
	}
	return &entities.PullRequest{
		ID:    1,
		Title: input.Title,
		URL:   fmt.Sprintf("https://bitbucket.org/%s/%s/pull-requests/1", workspace, slug),
	}, nil
}
