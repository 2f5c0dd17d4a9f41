package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/gridfile"
	"github.com/vk/gridflow/pkg/taskflow"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *gridfile.Model

	// flow is the engine of the current Run. It is assigned before the
	// health endpoint goroutine starts, never after.
	flow *taskflow.Taskflow
}

// NewApp is the constructor for the main application. It configures an
// isolated logger and loads the grid model up front; a grid that cannot be
// loaded is a startup error, not a runtime one.
func NewApp(outW io.Writer, config *Config, loader *gridfile.Loader) (*App, error) {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, config.GridPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load grid: %w", err)
	}
	logger.Info("Grid loaded successfully.", "tasks_found", len(model.Tasks))

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		model:  model,
	}, nil
}

// Model returns the loaded grid model. This is primarily for testing.
func (a *App) Model() *gridfile.Model {
	return a.model
}
