package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
	infraRepos "github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/repositories"
)

// MakePR is the interface for the make-pr command.
type MakePR interface {
	Execute(ctx context.Context, settings *entities.Settings, opts MakePROptions) (*entities.PullRequest, error)
}

// MakePROptions holds the values given on the command line. Empty fields are
// collected interactively.
type MakePROptions struct {
	Workspace    string
	Slug         string
	Branch       string
	Dependency   string
	Version      string
	ManifestPath string // Overrides settings.Manifest.Path
	RepoDir      string // Local checkout whose origin remote suggests workspace and slug
	DryRun       bool
}

// MakePRCommand bumps one dependency in the manifest of a branch and opens a
// pull request with the change:
// authenticate -> workspace -> slug -> branch -> dependency -> version -> branch/commit/PR.
type MakePRCommand struct {
	hostingFactory  repositories.HostingFactory
	versionRegistry *infraRepos.VersionRegistry
	prompter        repositories.PrompterRepository
	remote          repositories.RemoteRepository
}

// NewMakePRCommand creates a new MakePRCommand.
func NewMakePRCommand(
	hostingFactory repositories.HostingFactory,
	versionRegistry *infraRepos.VersionRegistry,
	prompter repositories.PrompterRepository,
	remote repositories.RemoteRepository,
) *MakePRCommand {
	return &MakePRCommand{
		hostingFactory:  hostingFactory,
		versionRegistry: versionRegistry,
		prompter:        prompter,
		remote:          remote,
	}
}

// Execute runs the whole flow. In dry-run mode it stops before anything is
// written and returns a nil pull request.
func (it *MakePRCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts MakePROptions,
) (*entities.PullRequest, error) {
	versions, err := it.versionRegistry.Get(settings.Registry)
	if err != nil {
		return nil, err
	}

	credentials, err := it.askCredentials(ctx)
	if err != nil {
		return nil, err
	}
	hosting := it.hostingFactory(settings.Bitbucket, credentials)

	suggested := it.suggestRepository(opts)
	workspace, err := it.resolve(ctx, opts.Workspace, repositories.InputPrompt{
		Title:   "Enter the workspace",
		Default: suggested.Workspace,
		Validate: func(value string) error {
			return hosting.WorkspaceExists(ctx, value)
		},
	})
	if err != nil {
		return nil, err
	}

	slug, err := it.resolve(ctx, opts.Slug, repositories.InputPrompt{
		Title:   "Enter the repository slug",
		Default: suggested.Slug,
		Validate: func(value string) error {
			return hosting.RepositoryExists(ctx, workspace, value)
		},
	})
	if err != nil {
		return nil, err
	}

	branch, err := it.resolveBranch(ctx, hosting, workspace, slug, opts.Branch)
	if err != nil {
		return nil, err
	}

	manifest, err := it.readManifest(ctx, hosting, workspace, slug, branch, settings, opts)
	if err != nil {
		return nil, err
	}

	dependency, err := it.resolve(ctx, opts.Dependency, repositories.InputPrompt{
		Title:       "Enter the dependency to update",
		Suggestions: dependencyNames(manifest),
		Validate: func(value string) error {
			return entities.ValidateDependencyExists(manifest, value)
		},
	})
	if err != nil {
		return nil, err
	}

	version, err := it.resolveVersion(ctx, versions, manifest, dependency, opts.Version)
	if err != nil {
		return nil, err
	}

	update := entities.NewDependencyUpdate(settings.Branch.Prefix, dependency, version)
	updated, err := manifest.Update(dependency, version)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		logger.Infof("[DRY RUN] Would create branch %q from %s (%s)", update.BranchName, branch.Name, branch.Hash)
		logger.Infof("[DRY RUN] Would commit %s: %s", updated.Path(), update.Title)
		logger.Infof("[DRY RUN] Would open pull request %q into %s", update.Title, branch.Name)
		return nil, nil //nolint:nilnil // nothing is opened in dry-run mode
	}

	return it.publish(ctx, hosting, workspace, slug, branch, updated, update, settings.Bitbucket.CloseSourceBranch)
}

func (it *MakePRCommand) askCredentials(ctx context.Context) (entities.Credentials, error) {
	kind, err := it.prompter.Select(ctx, "Select the authentication method", []repositories.PromptOption{
		{Label: "Access token", Value: string(entities.AuthToken)},
		{Label: "Username and password", Value: string(entities.AuthBasic)},
	})
	if err != nil {
		return entities.Credentials{}, err
	}

	credentials := entities.Credentials{Kind: entities.AuthKind(kind)}
	switch credentials.Kind {
	case entities.AuthToken:
		if credentials.Token, err = it.prompter.Input(ctx, repositories.InputPrompt{
			Title:  "Enter your access token",
			Secret: true,
		}); err != nil {
			return entities.Credentials{}, err
		}
	case entities.AuthBasic:
		if credentials.Username, err = it.prompter.Input(ctx, repositories.InputPrompt{
			Title: "Enter your username",
		}); err != nil {
			return entities.Credentials{}, err
		}
		if credentials.Password, err = it.prompter.Input(ctx, repositories.InputPrompt{
			Title:  "Enter your password",
			Secret: true,
		}); err != nil {
			return entities.Credentials{}, err
		}
	}

	if err = credentials.Validate(); err != nil {
		return entities.Credentials{}, err
	}
	return credentials, nil
}

// resolve validates a value given on the command line and aborts on failure;
// without one it prompts until the validation passes. Only input errors keep
// the prompt open, any other validation failure ends the run.
func (it *MakePRCommand) resolve(ctx context.Context, provided string, prompt repositories.InputPrompt) (string, error) {
	if provided == "" {
		var failure error
		if validate := prompt.Validate; validate != nil {
			prompt.Validate = func(value string) error {
				err := validate(value)
				if err == nil || IsValidationError(err) {
					return err
				}
				failure = err
				return nil
			}
		}
		value, err := it.prompter.Input(ctx, prompt)
		if failure != nil {
			return "", failure
		}
		return value, err
	}
	if prompt.Validate != nil {
		if err := prompt.Validate(provided); err != nil {
			return "", err
		}
	}
	return provided, nil
}

func (it *MakePRCommand) suggestRepository(opts MakePROptions) entities.Repository {
	if opts.Workspace != "" && opts.Slug != "" {
		return entities.Repository{}
	}

	dir := opts.RepoDir
	if dir == "" {
		dir = "."
	}
	url, err := it.remote.OriginURL(dir)
	if err != nil {
		logger.Debugf("No origin remote to suggest a repository from: %v", err)
		return entities.Repository{}
	}
	repository, err := entities.ParseBitbucketRemote(url)
	if err != nil {
		logger.Debugf("Origin remote is not a Bitbucket repository: %v", err)
		return entities.Repository{}
	}
	return *repository
}

func (it *MakePRCommand) resolveBranch(
	ctx context.Context,
	hosting repositories.HostingRepository,
	workspace, slug, provided string,
) (entities.Branch, error) {
	logger.Info("Searching for available branches...")
	branches, err := hosting.ListBranches(ctx, workspace, slug)
	if err != nil {
		return entities.Branch{}, err
	}
	if len(branches) == 0 {
		return entities.Branch{}, fmt.Errorf("%w: %s/%s", entities.ErrNoBranches, workspace, slug)
	}

	if provided != "" {
		return entities.FindBranch(branches, provided)
	}

	options := make([]repositories.PromptOption, 0, len(branches))
	for _, branch := range branches {
		options = append(options, repositories.PromptOption{Label: branch.Name, Value: branch.Name})
	}
	name, err := it.prompter.Select(ctx, "Select the source branch", options)
	if err != nil {
		return entities.Branch{}, err
	}
	return entities.FindBranch(branches, name)
}

func (it *MakePRCommand) readManifest(
	ctx context.Context,
	hosting repositories.HostingRepository,
	workspace, slug string,
	branch entities.Branch,
	settings *entities.Settings,
	opts MakePROptions,
) (*entities.Manifest, error) {
	path := opts.ManifestPath
	if path == "" {
		path = settings.Manifest.Path
	}

	logger.Infof("Reading %s from %s...", path, branch.Name)
	content, err := hosting.ReadFile(ctx, workspace, slug, branch.Hash, path)
	if err != nil {
		return nil, err
	}
	manifest, err := entities.NewManifest(path, content)
	if err != nil {
		return nil, err
	}
	return manifest.WithGroupOrder(settings.Manifest.Order()), nil
}

func (it *MakePRCommand) resolveVersion(
	ctx context.Context,
	versions repositories.VersionRepository,
	manifest *entities.Manifest,
	dependency, provided string,
) (string, error) {
	// the registry is asked once per run, and only after the cheap checks pass
	var latest string
	validate := func(value string) error {
		if err := entities.ValidateVersionAdvances(manifest, dependency, value); err != nil {
			return err
		}
		if latest == "" {
			published, err := versions.LatestVersion(ctx, dependency)
			if err != nil {
				return err
			}
			latest = published
		}
		return entities.ValidateProposedVersion(manifest, dependency, value, latest)
	}

	current, _ := manifest.Lookup(dependency)
	text, err := it.resolve(ctx, provided, repositories.InputPrompt{
		Title:       fmt.Sprintf("Enter the new version of %s", dependency),
		Placeholder: current,
		Validate:    validate,
	})
	if err != nil {
		return "", err
	}
	return entities.NormalizeVersion(text)
}

func (it *MakePRCommand) publish(
	ctx context.Context,
	hosting repositories.HostingRepository,
	workspace, slug string,
	source entities.Branch,
	manifest *entities.Manifest,
	update entities.DependencyUpdate,
	closeSourceBranch bool,
) (*entities.PullRequest, error) {
	logger.Infof("Creating branch %q...", update.BranchName)
	if _, err := hosting.CreateBranch(ctx, workspace, slug, update.BranchName, source.Hash); err != nil {
		return nil, err
	}

	logger.Info("Committing the changes...")
	if err := hosting.CommitFile(ctx, workspace, slug, entities.CommitInput{
		Branch:     update.BranchName,
		ParentHash: source.Hash,
		Path:       manifest.Path(),
		Content:    manifest.Bytes(),
		Message:    update.Title,
	}); err != nil {
		return nil, err
	}

	logger.Info("Creating pull request...")
	pr, err := hosting.CreatePullRequest(ctx, workspace, slug, entities.PullRequestInput{
		SourceBranch:      update.BranchName,
		TargetBranch:      source.Name,
		Title:             update.Title,
		Description:       update.Description,
		CloseSourceBranch: closeSourceBranch,
	})
	if err != nil {
		return nil, fmt.Errorf("branch %q was pushed but the pull request failed: %w", update.BranchName, err)
	}
	return pr, nil
}

func dependencyNames(manifest *entities.Manifest) []string {
	dependencies := manifest.Dependencies()
	names := make([]string, 0, len(dependencies))
	for _, dependency := range dependencies {
		names = append(names, dependency.Name)
	}
	return names
}

// IsValidationError reports whether err is an input validation failure rather than a remote one.
func IsValidationError(err error) bool {
	for _, target := range []error{
		entities.ErrInvalidVersion,
		entities.ErrVersionNotNewer,
		entities.ErrVersionOutOfRange,
		entities.ErrDependencyNotFound,
		entities.ErrWorkspaceNotFound,
		entities.ErrRepositoryNotFound,
		entities.ErrBranchNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
