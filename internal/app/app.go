package app

import (
	"io"
	"log/slog"

	"github.com/voxkit/voxdoc/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Results go to outW; logs go to errW so piped output stays
// clean.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(
		registry.WithStrict(config.Strict),
		registry.WithLogger(logger),
	)

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   config,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
