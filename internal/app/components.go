package app

import (
	"context"
	"errors"

	"github.com/GrinlexGH/deps/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger

	closers []func(context.Context) error
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger, closers ...func(context.Context) error) *Components {
	return &Components{
		App:     app,
		Logger:  logger,
		closers: closers,
	}
}

// Close flushes telemetry and releases store handles.
func (c *Components) Close(ctx context.Context) error {
	var errs error
	for _, closeFn := range c.closers {
		errs = errors.Join(errs, closeFn(ctx))
	}
	return errs
}
