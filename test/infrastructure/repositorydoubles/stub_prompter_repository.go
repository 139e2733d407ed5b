//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
)

// StubPrompterRepository answers prompts from scripted queues. An input answer
// that fails validation is recorded in Rejections and the next answer is tried,
// the way an interactive field stays open. Running out of answers aborts.
type StubPrompterRepository struct {
	Selections []string
	Inputs     []string

	// spy: what was asked
	SelectTitles  []string
	SelectOptions [][]repositories.PromptOption
	InputPrompts  []repositories.InputPrompt
	Rejections    []error
}

var _ repositories.PrompterRepository = (*StubPrompterRepository)(nil)

func (s *StubPrompterRepository) Select(
	_ context.Context, title string, options []repositories.PromptOption,
) (string, error) {
	s.SelectTitles = append(s.SelectTitles, title)
	s.SelectOptions = append(s.SelectOptions, options)
	if len(s.Selections) == 0 {
		return "", entities.ErrPromptAborted
	}

	answer := s.Selections[0]
	s.Selections = s.Selections[1:]
	for _, option := range options {
		if option.Value == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("%q is not an option of %q", answer, title)
}

func (s *StubPrompterRepository) Input(_ context.Context, prompt repositories.InputPrompt) (string, error) {
	s.InputPrompts = append(s.InputPrompts, prompt)
	for len(s.Inputs) > 0 {
		answer := strings.TrimSpace(s.Inputs[0])
		s.Inputs = s.Inputs[1:]
		if answer == "" {
			s.Rejections = append(s.Rejections, errors.New("a value is required"))
			continue
		}
		if prompt.Validate != nil {
			if err := prompt.Validate(answer); err != nil {
				s.Rejections = append(s.Rejections, err)
				continue
			}
		}
		return answer, nil
	}
	return "", entities.ErrPromptAborted
}
