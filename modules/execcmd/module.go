// Package execcmd implements the generic delegated-command task used for
// the browser test runner, the node test runner, and the coverage reporter.
package execcmd

import (
	"context"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/extcmd"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the exec task.
type Input struct {
	Command string   `hcl:"command"`
	Args    []string `hcl:"args,optional"`
	// Dir overrides the working directory; defaults to the project root.
	Dir string `hcl:"dir,optional"`
	// Env entries are appended to the inherited environment, KEY=VALUE.
	Env []string `hcl:"env,optional"`
}

// OnRunExec invokes the configured external command.
func OnRunExec(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)

	dir := in.Dir
	if dir == "" {
		dir = rc.Project.Root
	}

	ctxlog.FromContext(ctx).Info("Delegating to external command.", "command", in.Command)
	return extcmd.Run(ctx, extcmd.Options{
		Command: in.Command,
		Args:    in.Args,
		Dir:     dir,
		Env:     in.Env,
	})
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("exec", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunExec,
	})
}
