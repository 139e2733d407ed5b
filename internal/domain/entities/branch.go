package entities

import "fmt"

// Branch is a repository branch and the hash of its head commit.
type Branch struct {
	Name string
	Hash string
}

// FindBranch returns the branch with the given name.
func FindBranch(branches []Branch, name string) (Branch, error) {
	for _, branch := range branches {
		if branch.Name == name {
			return branch, nil
		}
	}
	return Branch{}, fmt.Errorf("%w: %s", ErrBranchNotFound, name)
}
