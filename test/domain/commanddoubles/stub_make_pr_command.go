//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/commands"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
)

// StubMakePRCommand is a stub implementation of commands.MakePR.
type StubMakePRCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	PullRequest      *entities.PullRequest
	LastSettings     *entities.Settings
	LastOpts         commands.MakePROptions
}

var _ commands.MakePR = (*StubMakePRCommand)(nil)

func (s *StubMakePRCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.MakePROptions,
) (*entities.PullRequest, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	return s.PullRequest, nil
}
