// Package bundle implements the concatenating bundler: the task's source
// files, in glob order, joined into a single output file with the project
// banner on top.
package bundle

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the bundle task.
type Input struct {
	// Output is the bundled file path, relative to the project root.
	Output string `hcl:"output"`
	// Banner controls whether the project banner is prepended.
	Banner bool `hcl:"banner,optional"`
	// Separator is written between concatenated files.
	Separator string `hcl:"separator,optional"`
}

// OnRunBundle concatenates the task's resolved sources into the output file.
func OnRunBundle(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	sources, err := rc.Sources()
	if err != nil {
		return errors.Wrap(err, "failed to resolve bundle sources")
	}
	if len(sources) == 0 {
		return errors.Errorf("bundle %q matched no source files", rc.Task.ID())
	}

	sep := in.Separator
	if sep == "" {
		sep = "\n"
	}

	outPath := filepath.Join(rc.Project.Root, in.Output)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "failed to create bundle output")
	}
	defer out.Close()

	if in.Banner {
		if _, err := out.WriteString(rc.Project.Banner); err != nil {
			return errors.Wrap(err, "failed to write banner")
		}
	}

	for i, src := range sources {
		data, err := os.ReadFile(filepath.Join(rc.Project.Root, src))
		if err != nil {
			return errors.Wrapf(err, "failed to read source %q", src)
		}
		if i > 0 {
			if _, err := out.WriteString(sep); err != nil {
				return err
			}
		}
		if _, err := out.Write(data); err != nil {
			return errors.Wrapf(err, "failed to append %q", src)
		}
	}

	if err := out.Close(); err != nil {
		return errors.Wrap(err, "failed to finish bundle output")
	}

	logger.Info("Bundle written.", "output", in.Output, "files", len(sources))
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("bundle", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunBundle,
	})
}
