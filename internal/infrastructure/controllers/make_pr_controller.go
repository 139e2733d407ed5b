package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/commands"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
)

// EnvPrefix prefixes the environment variables that can replace any flag.
const EnvPrefix = "BITBUCKET_AUTOPR"

//nolint:gochecknoglobals // terminal styles
var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2684FF")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#0052CC")).
			Padding(0, 2) //nolint:mnd // horizontal padding
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#36B37E"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B778C"))
)

// MakePRController handles the "make-pr" subcommand.
type MakePRController struct {
	command commands.MakePR
}

// NewMakePRController creates a new MakePRController.
func NewMakePRController(command commands.MakePR) *MakePRController {
	return &MakePRController{command: command}
}

// GetBind returns the Cobra command metadata for the make-pr controller.
func (it *MakePRController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "make-pr",
		Short: "Update a dependency and create the Bitbucket pull request",
		Long: `Bump one dependency of a package.json on a Bitbucket branch and open a pull request.

Asks how to authenticate, then for the workspace, repository, source branch,
dependency and new version. Any of them can be given as a flag or as a
BITBUCKET_AUTOPR_<FLAG> environment variable instead; values given that way
are validated and the run aborts when they are wrong.

The new version must be greater than the one in the manifest and not above
the latest version published in the npm registry.`,
	}
}

// Execute collects the options and runs the make-pr command.
func (it *MakePRController) Execute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	options, err := bindOptions(cmd)
	if err != nil {
		return err
	}
	if options.GetBool("verbose") {
		logger.SetLevel(logger.DebugLevel)
	}

	settings, err := loadSettings(options.GetString("config"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, bannerStyle.Render("Bitbucket Auto Pull Request"))

	pr, err := it.command.Execute(ctx, settings, commands.MakePROptions{
		Workspace:    options.GetString("workspace"),
		Slug:         options.GetString("slug"),
		Branch:       options.GetString("branch"),
		Dependency:   options.GetString("dependency"),
		Version:      options.GetString("version"),
		ManifestPath: options.GetString("manifest"),
		RepoDir:      options.GetString("dir"),
		DryRun:       options.GetBool("dry-run"),
	})
	if err != nil {
		if commands.IsValidationError(err) {
			return fmt.Errorf("invalid input: %w", err)
		}
		return err
	}

	if pr == nil {
		_, _ = fmt.Fprintln(out, mutedStyle.Render("Dry run complete, nothing was pushed."))
		return nil
	}
	_, _ = fmt.Fprintln(out, successStyle.Render("Pull request created:"), pr.URL)
	return nil
}

// AddFlags adds the make-pr-specific flags to the given Cobra command.
func (it *MakePRController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("workspace", "w", "", "Bitbucket workspace ID")
	cmd.Flags().StringP("slug", "s", "", "Repository slug inside the workspace")
	cmd.Flags().StringP("branch", "b", "", "Source branch to update (skips the branch prompt)")
	cmd.Flags().StringP("dependency", "d", "", "Dependency to update")
	cmd.Flags().StringP("version", "V", "", "New version of the dependency")
	cmd.Flags().String("manifest", "", "Manifest path in the repository (default: manifest.path setting)")
	cmd.Flags().String("dir", ".", "Local checkout whose origin remote suggests the workspace and slug")
}

// AddGlobalFlags adds the flags shared by every subcommand to the root command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show what would be done without making changes")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")
}

// bindOptions layers flags over BITBUCKET_AUTOPR_* environment variables.
func bindOptions(cmd *cobra.Command) (*viper.Viper, error) {
	options := viper.New()
	options.SetEnvPrefix(EnvPrefix)
	options.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	options.AutomaticEnv()
	if err := options.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return options, nil
}

func loadSettings(configPath string) (*entities.Settings, error) {
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("Using default settings: %v", err)
			return entities.DefaultSettings(), nil
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}
