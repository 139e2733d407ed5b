package entities

// CommitInput is a single-file commit on top of a parent commit.
type CommitInput struct {
	Branch     string
	ParentHash string
	Path       string
	Content    []byte
	Message    string
}

// PullRequestInput contains the parameters for opening a pull request.
type PullRequestInput struct {
	SourceBranch      string
	TargetBranch      string
	Title             string
	Description       string
	CloseSourceBranch bool
}

// PullRequest is a pull request created on the hosting service.
type PullRequest struct {
	ID    int
	Title string
	URL   string
}
