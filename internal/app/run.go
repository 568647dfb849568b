package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/pipewright/internal/ctxlog"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.List {
		names := a.runner.Pipelines()
		sort.Strings(names)
		for _, name := range names {
			steps, _ := a.runner.Steps(name)
			fmt.Fprintf(a.outW, "%s  %v\n", name, steps)
		}
		return nil
	}

	if err := a.runner.RunPipeline(ctx, appConfig.Pipeline); err != nil {
		return fmt.Errorf("pipeline %q failed: %w", appConfig.Pipeline, err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
