package repositories

import (
	"go.uber.org/dig"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	domainRepos "github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
	bbRepo "github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/repositories/bitbucket"
	gitRepo "github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/repositories/gitlocal"
	npmRepo "github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/repositories/npm"
	termRepo "github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/repositories/terminal"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register version registry with all latest-version lookups
	if err := container.Provide(func() *VersionRegistry {
		reg := NewVersionRegistry()
		reg.Register(entities.RegistrySourceHTTP, npmRepo.NewHTTPVersionRepository)
		reg.Register(entities.RegistrySourceNpm, npmRepo.NewCLIVersionRepository)
		return reg
	}); err != nil {
		return err
	}

	// The hosting repository needs credentials collected at run time, so a factory is provided
	if err := container.Provide(func() domainRepos.HostingFactory {
		return bbRepo.NewHostingRepository
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.PrompterRepository {
		return termRepo.NewHuhPrompterRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.RemoteRepository {
		return gitRepo.NewGitRemoteRepository()
	}); err != nil {
		return err
	}

	return nil
}
