package bitbucket

import "fmt"

// BranchPage is a paginated response of branches.
type BranchPage struct {
	Size    int      `json:"size"`
	Page    int      `json:"page"`
	PageLen int      `json:"pagelen"`
	Next    string   `json:"next"`
	Values  []Branch `json:"values"`
}

// Branch represents a Bitbucket Cloud branch ref.
type Branch struct {
	Name   string `json:"name"`
	Target Commit `json:"target"`
}

// Commit is the target of a ref.
type Commit struct {
	Hash string `json:"hash"`
}

// CreateBranchRequest is the body of POST /refs/branches.
type CreateBranchRequest struct {
	Name   string `json:"name"`
	Target Commit `json:"target"`
}

// BranchRef names a branch in a pull request endpoint.
type BranchRef struct {
	Name string `json:"name"`
}

// Endpoint is the source or destination of a pull request.
type Endpoint struct {
	Branch BranchRef `json:"branch"`
}

// CreatePullRequestRequest is the body of POST /pullrequests.
type CreatePullRequestRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Source            Endpoint `json:"source"`
	Destination       Endpoint `json:"destination"`
	CloseSourceBranch bool     `json:"close_source_branch"`
}

// PullRequest represents a Bitbucket Cloud pull request.
type PullRequest struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	State string `json:"state"` // OPEN, MERGED, DECLINED, SUPERSEDED
	Links struct {
		HTML Link `json:"html"`
	} `json:"links"`
}

// Link is an entry of a "links" object.
type Link struct {
	Href string `json:"href"`
}

// ErrorResponse is the structured error payload of the Bitbucket Cloud API.
type ErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Message string         `json:"message"`
		Detail  any            `json:"detail"`
		Fields  map[string]any `json:"fields"`
	} `json:"error"`
}

// APIError is a failed API call flattened to a single message.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Message, e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}
