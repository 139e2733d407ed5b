package repositories

import "context"

// PromptOption is one choice of a selection prompt.
type PromptOption struct {
	Label string
	Value string
}

// InputPrompt describes a free-text prompt. Validate runs on submit and keeps
// the prompt open until it returns nil.
type InputPrompt struct {
	Title       string
	Placeholder string
	Default     string
	Secret      bool
	Suggestions []string
	Validate    func(value string) error
}

// PrompterRepository collects answers from the user interactively.
// Aborting a prompt returns entities.ErrPromptAborted.
type PrompterRepository interface {
	Select(ctx context.Context, title string, options []PromptOption) (string, error)
	Input(ctx context.Context, prompt InputPrompt) (string, error)
}
