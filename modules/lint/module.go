// Package lint implements the linter task: a delegated external linter
// invocation over the task's resolved source files, optionally in fix mode
// restricted to a configured rule set.
package lint

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/extcmd"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the lint task.
type Input struct {
	// Command is the external linter executable.
	Command string `hcl:"command"`
	// Format selects the linter's report format flag value.
	Format string `hcl:"format,optional"`
	// Fix asks the linter to rewrite files instead of only reporting.
	Fix bool `hcl:"fix,optional"`
	// FixRules restricts fix mode to the named rules.
	FixRules []string `hcl:"fix_rules,optional"`
}

// OnRunLint invokes the external linter over the task's sources.
func OnRunLint(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	sources, err := rc.Sources()
	if err != nil {
		return errors.Wrap(err, "failed to resolve lint sources")
	}
	if len(sources) == 0 {
		logger.Warn("Lint task matched no files, nothing to do.", "task", rc.Task.ID())
		return nil
	}

	args := make([]string, 0, len(sources)+8)
	if in.Format != "" {
		args = append(args, "--format", in.Format)
	}
	if in.Fix {
		args = append(args, "--fix")
		for _, rule := range in.FixRules {
			args = append(args, "--rule", rule)
		}
	}
	args = append(args, sources...)

	logger.Info("Linting.", "command", in.Command, "files", len(sources), "fix", in.Fix)
	return extcmd.Run(ctx, extcmd.Options{
		Command: in.Command,
		Args:    args,
		Dir:     rc.Project.Root,
	})
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("lint", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunLint,
	})
}
