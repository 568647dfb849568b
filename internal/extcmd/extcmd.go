// Package extcmd runs delegated external toolchain commands (linters, test
// runners, documentation generators). The child's own diagnostics stream to
// this process's stdout/stderr unmodified; pipewright adds nothing but the
// failure wrapping.
package extcmd

import (
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/vk/pipewright/internal/ctxlog"
)

// Options describes one delegated command invocation.
type Options struct {
	Command string
	Args    []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env entries are appended to the inherited environment.
	Env []string
}

// Run executes the command and waits for it. A non-zero exit becomes an
// error carrying the command name; the tool's diagnostic output has already
// gone to the user's terminal by then.
func Run(ctx context.Context, opts Options) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running external command.", "command", opts.Command, "args", opts.Args, "dir", opts.Dir)

	cmd := exec.CommandContext(ctx, opts.Command, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed", opts.Command)
	}
	return nil
}
