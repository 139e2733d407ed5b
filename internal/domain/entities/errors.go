package entities

import "errors"

var (
	// ErrInvalidVersion is returned when a version text cannot be coerced to a semantic version.
	ErrInvalidVersion = errors.New("version is not valid")
	// ErrVersionNotNewer is returned when the proposed version does not advance the recorded one.
	ErrVersionNotNewer = errors.New("version is lower or equal the previous version")
	// ErrVersionOutOfRange is returned when the proposed version is not between the recorded and the latest one.
	ErrVersionOutOfRange = errors.New("version is not between the previous and the latest published version")
	// ErrInvalidPublishedVersion is returned when the registry reports a version that cannot be parsed.
	ErrInvalidPublishedVersion = errors.New("registry returned an invalid latest version")
	// ErrDependencyNotFound is returned when no dependency group of the manifest lists the dependency.
	ErrDependencyNotFound = errors.New("dependency is not listed in the manifest")
	// ErrInvalidManifest is returned when the manifest content is not a JSON object.
	ErrInvalidManifest    = errors.New("manifest is not a valid JSON object")
	ErrWorkspaceNotFound  = errors.New("workspace doesn't exist in your Bitbucket account")
	ErrRepositoryNotFound = errors.New("repository doesn't exist in the workspace")
	ErrNoBranches         = errors.New("repository has no branches")
	ErrBranchNotFound     = errors.New("branch doesn't exist in the repository")
	// ErrPromptAborted is returned when the user cancels an interactive prompt.
	ErrPromptAborted      = errors.New("prompt aborted by the user")
	ErrInvalidCredentials = errors.New("credentials are incomplete")
)
