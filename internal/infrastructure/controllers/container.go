package controllers

import (
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewMakePRController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	makePRController *MakePRController,
) *[]entities.Controller {
	return &[]entities.Controller{
		makePRController,
	}
}
