package npm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
)

const npmBinary = "npm"

// CommandRunner runs an external program and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CLIVersionRepository asks the npm CLI for the latest version ("npm view <name> version").
type CLIVersionRepository struct {
	registryURL string
	run         CommandRunner
}

// NewCLIVersionRepository creates a CLIVersionRepository that shells out to npm.
// Its signature matches the version registry's factory.
func NewCLIVersionRepository(settings entities.RegistrySettings) repositories.VersionRepository {
	return NewCLIVersionRepositoryWithRunner(settings, runCommand)
}

// NewCLIVersionRepositoryWithRunner creates a CLIVersionRepository with a custom command runner.
func NewCLIVersionRepositoryWithRunner(settings entities.RegistrySettings, run CommandRunner) *CLIVersionRepository {
	return &CLIVersionRepository{registryURL: settings.URL, run: run}
}

func (it *CLIVersionRepository) LatestVersion(ctx context.Context, name string) (string, error) {
	args := []string{"view", name, "version"}
	if it.registryURL != "" && it.registryURL != entities.DefaultRegistryURL {
		args = append(args, "--registry", it.registryURL)
	}

	output, err := it.run(ctx, npmBinary, args...)
	if err != nil {
		return "", fmt.Errorf("failed to run %s %s: %w", npmBinary, strings.Join(args, " "), err)
	}

	version := strings.TrimSpace(string(output))
	if version == "" {
		return "", fmt.Errorf("%s view returned no version for %s", npmBinary, name)
	}
	logger.Debugf("Latest published version of %s is %s", name, version)
	return version, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		if stderr != "" {
			return nil, fmt.Errorf("%w: %s", err, stderr)
		}
		return nil, err
	}
	return output, nil
}

var _ repositories.VersionRepository = (*CLIVersionRepository)(nil)
