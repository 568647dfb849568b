package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/pipewright/internal/aggregate"
	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/project"
	"github.com/vk/pipewright/internal/registry"
	"github.com/vk/pipewright/internal/runner"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *config.Model
	project  *project.Project
	runner   *runner.Runner
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Startup configuration problems are programmer/user errors that cannot be
// recovered from, so they panic; the entrypoint recovers and reports them.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load the pipeline configuration into the format-agnostic model.
	cfgModel, decoder, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	// Compute the derived source list before anything can observe the
	// registry; the model is immutable from here on.
	aggregate.Apply(ctx, cfgModel)

	// Read the project metadata and license once, and capture the banner
	// (including its build date) for the whole process.
	proj, err := project.Load(cfgModel.Project)
	if err != nil {
		panic(fmt.Errorf("failed to load project metadata: %w", err))
	}
	logger.Debug("Project metadata loaded.", "name", proj.Name, "version", proj.Version)

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	// Validate the integrity of the registry against the model.
	if err := reg.Validate(cfgModel); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	// Compose pipelines up front so a reference cycle fails at startup,
	// not mid-run.
	run, err := runner.New(cfgModel, reg, decoder, proj)
	if err != nil {
		panic(fmt.Errorf("failed to compose pipelines: %w", err))
	}
	logger.Debug("Pipelines composed.", "count", len(run.Pipelines()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfgModel,
		project:  proj,
		runner:   run,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Runner returns the application's pipeline runner. This is primarily for testing.
func (a *App) Runner() *runner.Runner {
	return a.runner
}
