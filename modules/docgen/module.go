// Package docgen implements the documentation-generation task: a delegated
// external generator invocation pointed at the project's doc config, with
// the project version passed through so the generated pages label the
// release they document.
package docgen

import (
	"context"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/extcmd"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the docs task.
type Input struct {
	// Command is the external documentation generator executable.
	Command string `hcl:"command"`
	// ConfigFile is the generator's own configuration file.
	ConfigFile string `hcl:"config_file,optional"`
	// Output is the directory the documentation tree is written to.
	Output string `hcl:"output,optional"`
	// Args are extra generator arguments, appended last.
	Args []string `hcl:"args,optional"`
}

// OnRunDocs invokes the external documentation generator.
func OnRunDocs(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)

	args := make([]string, 0, len(in.Args)+4)
	if in.ConfigFile != "" {
		args = append(args, "--configure", in.ConfigFile)
	}
	if in.Output != "" {
		args = append(args, "--destination", in.Output)
	}
	args = append(args, in.Args...)

	ctxlog.FromContext(ctx).Info("Generating documentation.",
		"command", in.Command, "version", rc.Project.Version, "output", in.Output)
	return extcmd.Run(ctx, extcmd.Options{
		Command: in.Command,
		Args:    args,
		Dir:     rc.Project.Root,
		Env:     []string{"PROJECT_VERSION=" + rc.Project.Version},
	})
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("docs", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunDocs,
	})
}
