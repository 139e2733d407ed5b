package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/controllers"
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:     entities.AppName,
		Short:   "Open Bitbucket pull requests that bump npm dependencies",
		Version: entities.AppVersion,
		Long: `Interactive helper that updates one dependency in a repository's package.json
directly on Bitbucket Cloud and opens a pull request for the change.

Usage:
  bitbucket-autopr make-pr                 Ask for everything interactively
  bitbucket-autopr make-pr -w acme -s web  Skip the workspace and repository prompts`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags
	controllers.AddGlobalFlags(cmd)
	cmd.Flags().BoolP("version", "V", false, "Print the version and exit")

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		ctrl.AddFlags(subCmd)

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	cobraRoot := buildRootCommand()

	// Inject controllers via DIG and add them as subcommands
	appContext := injectAppContext()
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing '%s': %s", entities.AppName, err)
	}
}
