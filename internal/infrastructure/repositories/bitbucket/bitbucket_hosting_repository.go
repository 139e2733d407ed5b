package bitbucket

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/httpclient"
)

const branchPageLen = 100

// HostingRepository implements repositories.HostingRepository on Bitbucket Cloud.
type HostingRepository struct {
	client *Client
}

// NewHostingRepository creates a HostingRepository with a pooled HTTP client.
// Its signature matches repositories.HostingFactory.
func NewHostingRepository(
	settings entities.BitbucketSettings,
	credentials entities.Credentials,
) repositories.HostingRepository {
	return NewHostingRepositoryWithClient(NewClient(settings.BaseURL, credentials, httpclient.New()))
}

// NewHostingRepositoryWithClient creates a HostingRepository on top of an existing client.
func NewHostingRepositoryWithClient(client *Client) *HostingRepository {
	return &HostingRepository{client: client}
}

func (it *HostingRepository) WorkspaceExists(ctx context.Context, workspace string) error {
	err := it.client.Get(ctx, "/workspaces/"+url.PathEscape(workspace), nil)
	if IsStatus(err, http.StatusNotFound, http.StatusForbidden) {
		return fmt.Errorf("%w: %s", entities.ErrWorkspaceNotFound, workspace)
	}
	if err != nil {
		return fmt.Errorf("failed to get workspace %q: %w", workspace, err)
	}
	return nil
}

func (it *HostingRepository) RepositoryExists(ctx context.Context, workspace, slug string) error {
	err := it.client.Get(ctx, repositoryPath(workspace, slug), nil)
	if IsStatus(err, http.StatusNotFound, http.StatusForbidden) {
		return fmt.Errorf("%w: %s/%s", entities.ErrRepositoryNotFound, workspace, slug)
	}
	if err != nil {
		return fmt.Errorf("failed to get repository %s/%s: %w", workspace, slug, err)
	}
	return nil
}

func (it *HostingRepository) ListBranches(ctx context.Context, workspace, slug string) ([]entities.Branch, error) {
	var branches []entities.Branch
	next := fmt.Sprintf("%s/refs/branches?pagelen=%d", repositoryPath(workspace, slug), branchPageLen)
	for next != "" {
		var page BranchPage
		if err := it.client.Get(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("failed to list branches of %s/%s: %w", workspace, slug, err)
		}
		for _, branch := range page.Values {
			branches = append(branches, entities.Branch{Name: branch.Name, Hash: branch.Target.Hash})
		}
		next = page.Next
	}
	return branches, nil
}

func (it *HostingRepository) ReadFile(ctx context.Context, workspace, slug, commit, filePath string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/src/%s/%s", repositoryPath(workspace, slug), url.PathEscape(commit), escapeFilePath(filePath))
	content, err := it.client.GetRaw(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %w", filePath, commit, err)
	}
	return content, nil
}

func (it *HostingRepository) CreateBranch(
	ctx context.Context,
	workspace, slug, name, fromHash string,
) (*entities.Branch, error) {
	var created Branch
	body := CreateBranchRequest{Name: name, Target: Commit{Hash: fromHash}}
	if err := it.client.Post(ctx, repositoryPath(workspace, slug)+"/refs/branches", body, &created); err != nil {
		return nil, fmt.Errorf("failed to create branch %q: %w", name, err)
	}
	return &entities.Branch{Name: created.Name, Hash: created.Target.Hash}, nil
}

func (it *HostingRepository) CommitFile(ctx context.Context, workspace, slug string, input entities.CommitInput) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := [][2]string{
		{"message", input.Message},
		{"branch", input.Branch},
		{"parents", input.ParentHash},
	}
	for _, field := range fields {
		if field[1] == "" {
			continue
		}
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return fmt.Errorf("failed to encode commit field %q: %w", field[0], err)
		}
	}
	part, err := writer.CreateFormFile(input.Path, path.Base(input.Path))
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", input.Path, err)
	}
	if _, err = part.Write(input.Content); err != nil {
		return fmt.Errorf("failed to encode %s: %w", input.Path, err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to encode commit: %w", err)
	}

	if err = it.client.PostForm(ctx, repositoryPath(workspace, slug)+"/src", writer.FormDataContentType(), &body); err != nil {
		return fmt.Errorf("failed to commit %s to %q: %w", input.Path, input.Branch, err)
	}
	return nil
}

func (it *HostingRepository) CreatePullRequest(
	ctx context.Context,
	workspace, slug string,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	body := CreatePullRequestRequest{
		Title:             input.Title,
		Description:       input.Description,
		Source:            Endpoint{Branch: BranchRef{Name: input.SourceBranch}},
		Destination:       Endpoint{Branch: BranchRef{Name: input.TargetBranch}},
		CloseSourceBranch: input.CloseSourceBranch,
	}

	var created PullRequest
	if err := it.client.Post(ctx, repositoryPath(workspace, slug)+"/pullrequests", body, &created); err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}
	return &entities.PullRequest{
		ID:    created.ID,
		Title: created.Title,
		URL:   created.Links.HTML.Href,
	}, nil
}

func repositoryPath(workspace, slug string) string {
	return fmt.Sprintf("/repositories/%s/%s", url.PathEscape(workspace), url.PathEscape(slug))
}

func escapeFilePath(filePath string) string {
	segments := strings.Split(strings.TrimPrefix(filePath, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

var _ repositories.HostingRepository = (*HostingRepository)(nil)
