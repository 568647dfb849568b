// Package watchmod implements the watch task: it suspends the pipeline run
// and re-executes a named pipeline on every debounced change burst under
// the task's source globs. The watch session only ends when the process is
// interrupted.
package watchmod

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/registry"
	"github.com/vk/pipewright/internal/watch"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the watch task.
type Input struct {
	// Pipeline is re-run on each change burst.
	Pipeline string `hcl:"pipeline"`
	// Paths overrides the watched roots; defaults to the roots derived
	// from the task's src globs.
	Paths []string `hcl:"paths,optional"`
	// Debounce is the quiet period, e.g. "300ms".
	Debounce string `hcl:"debounce,optional"`
}

// watchRoots derives the directories to watch from glob patterns: the
// longest prefix of each pattern before its first meta character.
func watchRoots(root string, patterns []string) []string {
	seen := make(map[string]struct{})
	var roots []string
	for _, pattern := range patterns {
		dir := pattern
		if i := strings.IndexAny(pattern, "*?["); i >= 0 {
			dir = filepath.Dir(pattern[:i+1])
		} else {
			dir = filepath.Dir(pattern)
		}
		full := filepath.Join(root, dir)
		if _, dup := seen[full]; dup {
			continue
		}
		seen[full] = struct{}{}
		roots = append(roots, full)
	}
	return roots
}

// OnRunWatch blocks, re-running the configured pipeline on changes.
func OnRunWatch(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	paths := make([]string, 0, len(in.Paths))
	for _, p := range in.Paths {
		paths = append(paths, filepath.Join(rc.Project.Root, p))
	}
	if len(paths) == 0 {
		paths = watchRoots(rc.Project.Root, rc.Task.Src)
	}
	if len(paths) == 0 {
		return errors.Errorf("watch %q has no paths to watch", rc.Task.ID())
	}

	var debounce time.Duration
	if in.Debounce != "" {
		d, err := time.ParseDuration(in.Debounce)
		if err != nil {
			return errors.Wrap(err, "invalid debounce")
		}
		debounce = d
	}

	logger.Info("Watch task starting.", "pipeline", in.Pipeline, "paths", paths)
	return watch.Run(ctx, watch.Options{Paths: paths, Debounce: debounce}, func(runCtx context.Context) error {
		return rc.Pipelines.RunPipeline(runCtx, in.Pipeline)
	})
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("watch", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunWatch,
	})
}
