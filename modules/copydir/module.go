// Package copydir implements the release-snapshot task: the task's resolved
// sources copied into a destination directory, preserving their paths
// relative to the project root.
package copydir

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/fsutil"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the copy task.
type Input struct {
	// Dest is the snapshot directory, relative to the project root.
	Dest string `hcl:"dest"`
}

// OnRunCopy copies the task's sources into the destination directory.
func OnRunCopy(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	sources, err := rc.Sources()
	if err != nil {
		return errors.Wrap(err, "failed to resolve copy sources")
	}

	for _, src := range sources {
		from := filepath.Join(rc.Project.Root, src)
		to := filepath.Join(rc.Project.Root, in.Dest, src)
		if err := fsutil.CopyFile(from, to); err != nil {
			return errors.Wrapf(err, "failed to copy %q", src)
		}
	}

	logger.Info("Snapshot copied.", "dest", in.Dest, "files", len(sources))
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("copy", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunCopy,
	})
}
