package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
)

// HuhPrompterRepository renders prompts in the terminal with huh forms.
type HuhPrompterRepository struct {
	accessible bool
}

// NewHuhPrompterRepository creates a prompter; ACCESSIBLE=1 switches huh to its screen-reader mode.
func NewHuhPrompterRepository() *HuhPrompterRepository {
	return &HuhPrompterRepository{accessible: os.Getenv("ACCESSIBLE") != ""}
}

func (it *HuhPrompterRepository) Select(
	ctx context.Context,
	title string,
	options []repositories.PromptOption,
) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to select for %q", title)
	}

	selected := options[0].Value
	huhOptions := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		huhOptions = append(huhOptions, huh.NewOption(option.Label, option.Value))
	}

	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)
	if err := it.run(ctx, field); err != nil {
		return "", err
	}
	return selected, nil
}

func (it *HuhPrompterRepository) Input(ctx context.Context, prompt repositories.InputPrompt) (string, error) {
	value := prompt.Default
	field := huh.NewInput().
		Title(prompt.Title).
		Placeholder(prompt.Placeholder).
		Value(&value).
		Validate(func(input string) error {
			trimmed := strings.TrimSpace(input)
			if trimmed == "" {
				return errors.New("a value is required")
			}
			if prompt.Validate != nil {
				return prompt.Validate(trimmed)
			}
			return nil
		})
	if prompt.Secret {
		field = field.EchoMode(huh.EchoModePassword)
	}
	if len(prompt.Suggestions) > 0 {
		field = field.Suggestions(prompt.Suggestions)
	}

	if err := it.run(ctx, field); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func (it *HuhPrompterRepository) run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(it.accessible).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return entities.ErrPromptAborted
	}
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

var _ repositories.PrompterRepository = (*HuhPrompterRepository)(nil)
